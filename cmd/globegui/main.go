// globegui wraps the globed server UI in a desktop webview window. It
// expects the server to be running (or starting) on the configured
// address and waits briefly for it to come up.
package main

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	webview "github.com/webview/webview_go"
)

const defaultAddr = "localhost:2460"

func main() {
	// Webview requires main thread
	runtime.LockOSThread()

	_ = godotenv.Load()
	addr := os.Getenv("GLOBED_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	url := "http://" + addr + "/"

	if !waitForServer(url, 15*time.Second) {
		fmt.Fprintf(os.Stderr, "globed server not reachable at %s\n", url)
		os.Exit(1)
	}

	w := webview.New(false)
	defer w.Destroy()

	w.SetTitle("Globed")
	w.SetSize(1280, 800, webview.HintNone)
	w.Navigate(url)
	w.Run()
}

// waitForServer polls the health endpoint until the server answers or
// the timeout elapses.
func waitForServer(url string, timeout time.Duration) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url + "health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}
