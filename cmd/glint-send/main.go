// ABOUTME: CLI that sends a patch file to a running glint control endpoint
// ABOUTME: Dials the WebSocket API and reports apply success or the error line
package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/gorilla/websocket"
	"github.com/sineworks/glint/internal/control"
)

var (
	addr  = flag.String("addr", "127.0.0.1:8723", "Control endpoint address")
	graph = flag.Bool("graph", false, "Query the active graph instead of sending a patch")
)

func main() {
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/glint"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	var req control.Request
	if *graph {
		req = control.Request{Type: "graph"}
	} else {
		if flag.NArg() != 1 {
			log.Fatalf("usage: glint-send [-addr host:port] patch.glint")
		}
		code, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatalf("read patch: %v", err)
		}
		req = control.Request{Type: "patch", Code: string(code)}
	}

	if err := conn.WriteJSON(req); err != nil {
		log.Fatalf("send failed: %v", err)
	}
	var resp control.Response
	if err := conn.ReadJSON(&resp); err != nil {
		log.Fatalf("read failed: %v", err)
	}

	switch resp.Type {
	case "ok":
		fmt.Println("patch applied")
	case "graph":
		for _, c := range resp.Chains {
			fmt.Println(c.Name)
			for _, n := range c.Nodes {
				fmt.Printf("  %s\n", n)
			}
		}
	case "error":
		if resp.Line > 0 {
			log.Fatalf("patch rejected at line %d: %s", resp.Line, resp.Error)
		}
		log.Fatalf("patch rejected: %s", resp.Error)
	default:
		log.Fatalf("unexpected response type %q", resp.Type)
	}
}
