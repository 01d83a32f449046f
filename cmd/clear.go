package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/krisalay/compute-cache/page"
)

var (
	assumeYes bool
	server    string

	clearCmd = &cobra.Command{
		Use:   "clear [KEY]",
		Short: "Clear a cached key on a running server",
		Long: "clear asks a running 'compute-cache serve' to drop a cached key.\n" +
			"Without --yes it asks for confirmation first.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := cfg.Key
			if len(args) == 1 {
				key = args[0]
			}

			if !assumeYes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), page.Question(key))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			res, err := postClear(server, key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message) //nolint:errcheck
			return nil
		},
	}
)

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N] ", question); err != nil {
		return false, fmt.Errorf("unable to write to writer: %w", err)
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("unable to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func postClear(server, key string) (page.ClearResult, error) {
	resp, err := http.PostForm(strings.TrimRight(server, "/")+"/clear", url.Values{ //nolint:noctx
		"key":     {key},
		"confirm": {"yes"},
	})
	if err != nil {
		return page.ClearResult{}, fmt.Errorf("unable to reach server: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return page.ClearResult{}, fmt.Errorf("HTTP status %d: %s", resp.StatusCode, e.Error)
	}

	var res page.ClearResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return page.ClearResult{}, fmt.Errorf("unable to decode response: %w", err)
	}
	return res, nil
}

func init() {
	clearCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	clearCmd.Flags().StringVar(&server, "server", "http://127.0.0.1:8080", "address of the running server")
}
