// Command vibroctl is an interactive terminal client for the control
// plane: single keystrokes drive pause/resume/stop/mix/mono without needing
// a full UI, the same terminal-attached utility shape as the
// teacher's cmd/tnctest, reading raw keystrokes via
// github.com/pkg/term the way a directly-attached serial/TNC test
// tool would, and speaking the WebSocket/JSON control protocol via
// github.com/gorilla/websocket on the client side.
package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/gorilla/websocket"
	"github.com/pkg/term"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := pflag.String("addr", "localhost:8765", "control-plane host:port")
	pflag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vibroctl: connecting:", err)
		return 1
	}
	defer conn.Close()

	go printIncoming(conn)

	tty, err := term.Open("/dev/tty")
	if err != nil {
		fmt.Fprintln(os.Stderr, "vibroctl: opening tty:", err)
		return 1
	}
	defer tty.Close()
	if err := term.RawMode(tty); err != nil {
		fmt.Fprintln(os.Stderr, "vibroctl: raw mode:", err)
		return 1
	}
	defer tty.Restore()

	printHelp()
	return keyLoop(conn, tty)
}

func printIncoming(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		fmt.Printf("\r\n< %s\r\n", data)
	}
}

func printHelp() {
	fmt.Print("vibroctl: p=pause r=resume s=stop +/-=mix m=mono toggle q=quit\r\n")
}

func keyLoop(conn *websocket.Conn, tty *term.Term) int {
	mix := 50
	mono := true
	buf := make([]byte, 1)
	for {
		n, err := tty.Read(buf)
		if err != nil || n == 0 {
			return 0
		}
		switch buf[0] {
		case 'q':
			return 0
		case 'p':
			sendAction(conn, `{"action":"pause"}`)
		case 'r':
			sendAction(conn, `{"action":"resume"}`)
		case 's':
			sendAction(conn, `{"action":"stop"}`)
		case '+':
			mix = clamp(mix+5, 0, 100)
			sendAction(conn, fmt.Sprintf(`{"action":"set-mix","value":%d}`, mix))
		case '-':
			mix = clamp(mix-5, 0, 100)
			sendAction(conn, fmt.Sprintf(`{"action":"set-mix","value":%d}`, mix))
		case 'm':
			mono = !mono
			sendAction(conn, fmt.Sprintf(`{"action":"bt-set-mono","mono":%t}`, mono))
		case '?':
			printHelp()
		}
	}
}

func sendAction(conn *websocket.Conn, payload string) {
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		fmt.Fprintf(os.Stderr, "\r\nvibroctl: send failed: %v\r\n", err)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
