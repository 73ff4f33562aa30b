package sheetsclient

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jakechorley/trainer-directory/pkg/utils"
)

// Client wraps the Google Sheets API client
type Client struct {
	service *sheets.Service
}

// NewClient creates a read-only Sheets client. credentialsFile holds either a service
// account key or an OAuth client; the latter runs the browser flow once per env and
// keeps the token on disk.
func NewClient(ctx context.Context, credentialsFile, env string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	kind, err := utils.DetectCredentials(data)
	if err != nil {
		return nil, err
	}

	var authOpt option.ClientOption
	switch kind {
	case utils.CredentialsServiceAccount:
		creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credentials: %w", err)
		}
		authOpt = option.WithCredentials(creds)
	default:
		oauthConfig, err := utils.GetOAuthConfig(data, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, err
		}
		token, err := utils.GetTokenWithFlow(ctx, oauthConfig, env)
		if err != nil {
			return nil, fmt.Errorf("failed to authorize: %w", err)
		}
		authOpt = option.WithTokenSource(oauthConfig.TokenSource(ctx, token))
	}

	service, err := sheets.NewService(ctx, authOpt)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service}, nil
}

// GetValues reads values from a spreadsheet range
func (c *Client) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}

	return resp.Values, nil
}
