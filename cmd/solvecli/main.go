// Command solvecli is the external client collaborator described in
// spec.md §6: it reads a JSON SolverRequest from a file, posts it to a
// running server's /solve/ endpoint, and prints the verdict.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/erikv05/tracechecker/internal/model"
)

func main() {
	var (
		addr    = flag.String("addr", "http://localhost:8000", "base URL of the trace checker server")
		timeout = flag.Duration("timeout", 10*time.Second, "HTTP request timeout")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: solvecli [-addr url] [-timeout dur] <request.json>")
		os.Exit(2)
	}

	os.Exit(run(*addr, *timeout, flag.Arg(0)))
}

func run(addr string, timeout time.Duration, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading file: %v\n", err)
		return 1
	}

	var req model.SolverRequest
	if err := json.Unmarshal(data, &req); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing JSON file: %v\n", err)
		return 1
	}

	client := &http.Client{Timeout: timeout}
	url := addr + "/solve/"
	fmt.Printf("sending request to %s...\n", url)

	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to reach server: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		fmt.Fprintf(os.Stderr, "error: server returned %d (%s): %s\n", resp.StatusCode, apiErr.Error, apiErr.Detail)
		return 1
	}

	var result model.SolverResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		fmt.Fprintf(os.Stderr, "error: could not parse server response: %v\n", err)
		return 1
	}

	switch result.Result {
	case model.ResultPassed:
		fmt.Println("PASSED: no counterexample trace found within the bound.")
	case model.ResultFailed:
		fmt.Printf("FAILED: violated property %q\n", result.ViolatedPbt)
		for i, state := range result.States {
			fmt.Printf("  state[%d]: %v\n", i, state)
		}
	default:
		fmt.Printf("unrecognized result: %q\n", result.Result)
	}

	return 0
}
