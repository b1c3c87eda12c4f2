package testrail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultRetryMax = 3
	apiPrefix       = "index.php?/api/v2/"
)

// Credentials ...
type Credentials struct {
	URL    string          `env:"TESTRAIL_URL,required"`
	User   string          `env:"TESTRAIL_USER,required"`
	APIKey stepconf.Secret `env:"TESTRAIL_API_KEY,required"`
}

// Client talks to the TestRail v2 API.
type Client interface {
	AddResultForCase(ctx context.Context, runID, caseID int, payload interface{}) (Record, error)
	GetResultsForCase(ctx context.Context, runID, caseID int) ([]Record, error)
}

type client struct {
	logger      log.Logger
	credentials Credentials
	httpClient  *retryablehttp.Client
}

// NewClient ...
func NewClient(logger log.Logger, credentials Credentials) Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = defaultRetryMax
	httpClient.RetryWaitMin = 500 * time.Millisecond
	httpClient.Logger = leveledLogger{logger: logger}
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &client{
		logger:      logger,
		credentials: credentials,
		httpClient:  httpClient,
	}
}

// AddResultForCase posts a result for the case of the given run and returns the stored record.
func (c client) AddResultForCase(ctx context.Context, runID, caseID int, payload interface{}) (Record, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, fmt.Sprintf("add_result_for_case/%d/%d", runID, caseID), body)
	if err != nil {
		return nil, err
	}

	return ParseRecord(data)
}

// GetResultsForCase ...
func (c client) GetResultsForCase(ctx context.Context, runID, caseID int) ([]Record, error) {
	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("get_results_for_case/%d/%d", runID, caseID), nil)
	if err != nil {
		return nil, err
	}

	return ResultsFromResponse(data)
}

func (c client) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	url := strings.TrimRight(c.credentials.URL, "/") + "/" + apiPrefix + endpoint

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.credentials.User, string(c.credentials.APIKey))

	c.logger.Debugf("%s %s", method, url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, endpoint, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warnf("Failed to close response body: %s", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s: %w", endpoint, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apiError(endpoint, resp.StatusCode, data)
	}

	return data, nil
}

func apiError(endpoint string, statusCode int, body []byte) error {
	var response struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &response); err == nil && response.Error != "" {
		return fmt.Errorf("%s: status %d: %s", endpoint, statusCode, response.Error)
	}
	return fmt.Errorf("%s: status %d: %s", endpoint, statusCode, strings.TrimSpace(string(body)))
}

type leveledLogger struct {
	logger log.Logger
}

func (l leveledLogger) format(msg string, keysAndValues ...interface{}) string {
	if len(keysAndValues) == 0 {
		return msg
	}
	var pairs []string
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		pairs = append(pairs, fmt.Sprintf("%v=%v", keysAndValues[i], keysAndValues[i+1]))
	}
	return msg + " " + strings.Join(pairs, " ")
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Errorf("%s", l.format(msg, keysAndValues...))
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugf("%s", l.format(msg, keysAndValues...))
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debugf("%s", l.format(msg, keysAndValues...))
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warnf("%s", l.format(msg, keysAndValues...))
}

var _ retryablehttp.LeveledLogger = leveledLogger{}
