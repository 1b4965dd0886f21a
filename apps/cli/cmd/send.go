package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/studiowebux/jsonfetch/packages/history"
	"github.com/studiowebux/jsonfetch/packages/output"
	"github.com/studiowebux/jsonfetch/packages/reqfile"
	"github.com/studiowebux/jsonfetch/packages/request"
)

var sendCmd = &cobra.Command{
	Use:   "send <url|file.yaml>",
	Short: "Perform a single JSON HTTP request",
	Long: `Perform one HTTP or HTTPS request and print the parsed JSON response.

Examples:
  jsonfetch send https://api.example.com/users
  jsonfetch send https://api.example.com/users -X POST -d '{"name":"test"}'
  jsonfetch send https://api.example.com/users -H "Authorization: Bearer abc"
  jsonfetch send https://api.example.com/report --stream > report.bin
  jsonfetch send request.yaml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: sendCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	methodFlag    string
	headerFlags   []string
	dataFlag      string
	timeoutFlag   string
	authFlag      string
	streamFlag    bool
	insecureFlag  bool
	caFlag        string
	certFlag      string
	keyFlag       string
	requestIDFlag bool
	watchFlag     bool
	noHistoryFlag bool
	noColorFlag   bool
	verboseFlag   bool
)

func init() {
	sendCmd.Flags().StringVarP(&methodFlag, "method", "X", "", "Request method: GET, POST, PUT, DELETE (default GET)")
	sendCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, `Header as "Key: Value"; an empty value suppresses a default header`)
	sendCmd.Flags().StringVarP(&dataFlag, "data", "d", "", "JSON object sent as the request body (ignored for GET)")
	sendCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("JSONFETCH_TIMEOUT", ""), "Request timeout (e.g., 3s, 500ms) (env: JSONFETCH_TIMEOUT)")
	sendCmd.Flags().StringVar(&authFlag, "auth", "", `Basic auth credentials as "user:pass"`)
	sendCmd.Flags().BoolVar(&streamFlag, "stream", false, "Write the raw response body to stdout instead of parsing JSON")
	sendCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("JSONFETCH_INSECURE", false), "Disable TLS certificate validation (env: JSONFETCH_INSECURE)")
	sendCmd.Flags().StringVar(&caFlag, "ca", "", "Path to a PEM CA bundle (https only)")
	sendCmd.Flags().StringVar(&certFlag, "cert", "", "Path to a PEM client certificate (https only)")
	sendCmd.Flags().StringVar(&keyFlag, "key", "", "Path to the PEM key for --cert (https only)")
	sendCmd.Flags().BoolVar(&requestIDFlag, "request-id", false, "Attach a generated X-Request-ID header")
	sendCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch a YAML request file and re-send on change")
	sendCmd.Flags().BoolVar(&noHistoryFlag, "no-history", false, "Do not record this request in history")
	sendCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("JSONFETCH_NO_COLOR", false), "Disable colored output (env: JSONFETCH_NO_COLOR)")
	sendCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show response headers")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func sendCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	formatter := output.NewConsoleFormatter(
		output.WithVerbose(verboseFlag),
		output.WithNoColor(noColorFlag),
	)

	params, err := buildParams(args[0])
	if err != nil {
		formatter.PrintError(err)
		os.Exit(ExitInputError)
	}

	err = sendOnce(formatter, params)

	if !watchFlag {
		if err != nil {
			os.Exit(ExitRequestFailure)
		}
		return nil
	}

	if !reqfile.IsRequestFile(args[0]) {
		return fmt.Errorf("--watch requires a YAML request file")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(args[0])); err != nil {
		return fmt.Errorf("failed to watch %s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", args[0])

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Write) && filepath.Clean(event.Name) == filepath.Clean(args[0]) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\n\n", event.Name)

					params, err := buildParams(args[0])
					if err != nil {
						formatter.PrintError(err)
						return
					}
					_ = sendOnce(formatter, params)
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			formatter.PrintError(fmt.Errorf("watcher error: %w", err))
		}
	}
}

// buildParams loads the base params from a URL argument or a YAML request
// file and applies the flag overrides on top.
func buildParams(arg string) (request.Params, error) {
	params, err := baseParams(arg)
	if err != nil {
		return request.Params{}, err
	}

	if methodFlag != "" {
		params.Method = methodFlag
	}

	for _, h := range headerFlags {
		key, value, found := strings.Cut(h, ":")
		key = strings.TrimSpace(key)
		if key == "" || !found {
			return request.Params{}, fmt.Errorf("invalid header %q (expected \"Key: Value\")", h)
		}
		if value = strings.TrimSpace(value); value == "" {
			params.SuppressHeader(key)
		} else {
			params.Header(key, value)
		}
	}

	if dataFlag != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(dataFlag), &data); err != nil {
			return request.Params{}, fmt.Errorf("invalid --data value: %w", err)
		}
		params.Data = data
	}

	if timeoutFlag != "" {
		timeout, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return request.Params{}, fmt.Errorf("invalid timeout value %q: %w (use format like 3s, 500ms)", timeoutFlag, err)
		}
		params.Timeout = timeout
	}

	if authFlag != "" {
		params.Auth = authFlag
	}
	if streamFlag {
		params.ReturnStream = true
	}
	if insecureFlag {
		reject := false
		params.RejectUnauthorized = &reject
	}

	if caFlag != "" {
		if params.CA, err = readPEMFile(caFlag); err != nil {
			return request.Params{}, err
		}
	}
	if certFlag != "" {
		if params.Cert, err = readPEMFile(certFlag); err != nil {
			return request.Params{}, err
		}
	}
	if keyFlag != "" {
		if params.Key, err = readPEMFile(keyFlag); err != nil {
			return request.Params{}, err
		}
	}

	if requestIDFlag {
		params.Header("X-Request-ID", uuid.New().String())
	}

	return params, nil
}

func baseParams(arg string) (request.Params, error) {
	if reqfile.IsRequestFile(arg) {
		return reqfile.Load(arg)
	}
	return request.Params{URL: arg}, nil
}

func readPEMFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read TLS material: %w", err)
	}
	return string(data), nil
}

func sendOnce(formatter *output.ConsoleFormatter, params request.Params) error {
	start := time.Now()
	result, err := request.Do(params)
	recordHistory(params, result, err, time.Since(start))

	if err != nil {
		formatter.PrintError(err)
		return err
	}

	if result.Stream != nil {
		_, copyErr := io.Copy(os.Stdout, result.Stream)
		_ = result.Stream.Close()
		return copyErr
	}

	formatter.PrintResult(result)
	return nil
}

// recordHistory is best-effort: a broken history database never fails the
// request itself.
func recordHistory(params request.Params, result *request.Result, reqErr error, elapsed time.Duration) {
	if noHistoryFlag {
		return
	}

	path, err := history.DefaultPath()
	if err != nil {
		return
	}
	store, err := history.Open(path)
	if err != nil {
		return
	}
	defer store.Close()

	method := strings.ToUpper(params.Method)
	if method == "" {
		method = "GET"
	}

	entry := history.Entry{
		Method:     method,
		URL:        params.URL,
		DurationMs: elapsed.Milliseconds(),
	}
	if id := params.Headers["X-Request-ID"]; id != nil {
		entry.RequestID = *id
	}
	if reqErr != nil {
		entry.Error = reqErr.Error()
	} else {
		entry.StatusCode = result.StatusCode
		entry.DurationMs = result.Duration.Milliseconds()
	}

	_ = store.Record(entry)
}
