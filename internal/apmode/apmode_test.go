package apmode

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockSystemctl(t *testing.T) *[]string {
	t.Helper()
	var calls []string
	orig := runSystemctl
	runSystemctl = func(ctx context.Context, verb, unit string) error {
		calls = append(calls, verb+" "+unit)
		return nil
	}
	t.Cleanup(func() { runSystemctl = orig })
	return &calls
}

func TestEnable_StartsHostapdThenDNSMasq(t *testing.T) {
	calls := withMockSystemctl(t)
	u := Units{Hostapd: "hostapd", DNSMasq: "dnsmasq"}
	require.NoError(t, u.Enable(context.Background()))
	assert.Equal(t, []string{"start hostapd", "start dnsmasq"}, *calls)
}

func TestDisable_StopsDNSMasqThenHostapd(t *testing.T) {
	calls := withMockSystemctl(t)
	u := Units{Hostapd: "hostapd", DNSMasq: "dnsmasq"}
	require.NoError(t, u.Disable(context.Background()))
	assert.Equal(t, []string{"stop dnsmasq", "stop hostapd"}, *calls)
}

func TestToggle_DispatchesOnWant(t *testing.T) {
	calls := withMockSystemctl(t)
	u := Units{Hostapd: "hostapd", DNSMasq: "dnsmasq"}

	require.NoError(t, u.Toggle(context.Background(), true))
	assert.Contains(t, *calls, "start hostapd")

	require.NoError(t, u.Toggle(context.Background(), false))
	assert.Contains(t, *calls, "stop hostapd")
}

func TestEnable_PropagatesError(t *testing.T) {
	orig := runSystemctl
	defer func() { runSystemctl = orig }()
	runSystemctl = func(ctx context.Context, verb, unit string) error {
		return errors.New("boom")
	}
	u := Units{Hostapd: "hostapd", DNSMasq: "dnsmasq"}
	assert.Error(t, u.Enable(context.Background()))
}
