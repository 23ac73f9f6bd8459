package btdiscovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDevicesOutput(t *testing.T) {
	out := "Device AA:BB:CC:DD:EE:FF Therapy Remote\n" +
		"Device 11:22:33:44:55:66 Second Speaker\n" +
		"Controller 00:00:00:00:00:00 Local Adapter\n"

	devices := parseDevicesOutput(out)
	assert.Equal(t, []PairedDevice{
		{MAC: "AA:BB:CC:DD:EE:FF", Name: "Therapy Remote"},
		{MAC: "11:22:33:44:55:66", Name: "Second Speaker"},
	}, devices)
}

func TestParseDevicesOutput_Empty(t *testing.T) {
	assert.Empty(t, parseDevicesOutput(""))
}

func TestDefaultServiceName_NeverEmpty(t *testing.T) {
	assert.NotEmpty(t, defaultServiceName())
}
