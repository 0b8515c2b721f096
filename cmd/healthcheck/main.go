package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Jared747/follower-fight-project/internal/constants"
)

func main() {
	addr := os.Getenv(constants.EnvServerAddress)
	if addr == "" {
		addr = constants.DefaultServerAddress
	}
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + constants.RouteHealth)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
	os.Exit(0)
}
