package gcal

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar API for a single calendar, authenticated
// with a service account.
type Client struct {
	service    *calendar.Service
	calendarID string
	timezone   string
}

type ClientConfig struct {
	CredentialsFile string
	CalendarID      string
	Timezone        string
}

// NewClient builds the calendar service from a service-account key. The key
// can also be provided inline via GOOGLE_SERVICE_ACCOUNT_JSON for container
// deployments.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	data, err := loadCredentials(cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}

	jwtConf, err := google.JWTConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(jwtConf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	return &Client{
		service:    service,
		calendarID: calendarID,
		timezone:   cfg.Timezone,
	}, nil
}

func loadCredentials(credentialsFile string) ([]byte, error) {
	if credJSON := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"); credJSON != "" {
		return []byte(credJSON), nil
	}
	if credentialsFile != "" {
		data, err := os.ReadFile(credentialsFile)
		if err == nil {
			return data, nil
		}
	}
	if data, err := os.ReadFile("./service_account.json"); err == nil {
		return data, nil
	}
	return nil, fmt.Errorf("no service account credentials found - provide a key file or set GOOGLE_SERVICE_ACCOUNT_JSON")
}
