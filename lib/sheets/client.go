package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

var (
	ErrPermission = errors.New("permission denied")
	ErrNotFound   = errors.New("spreadsheet not found")
)

// Client reads query lists from and writes result rows to a Google
// spreadsheet. Every error is final, callers do not retry.
type Client struct {
	svc *sheetsv4.Service
}

func NewClient(ctx context.Context, credentials []byte) (*Client, error) {
	err := ValidateCredentials(credentials)
	if err != nil {
		return nil, err
	}

	svc, err := sheetsv4.NewService(
		ctx,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ReadQueries returns the first column of the range, trimmed, with
// blank cells dropped.
func (c *Client) ReadQueries(ctx context.Context, spreadsheetID, readRange string) ([]string, error) {
	slog.InfoContext(ctx, "reading queries from spreadsheet", "spreadsheet", spreadsheetID, "range", readRange)

	res, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}

	var queries []string
	for _, row := range res.Values {
		if len(row) == 0 {
			continue
		}
		query := strings.TrimSpace(fmt.Sprint(row[0]))
		if query == "" {
			continue
		}
		queries = append(queries, query)
	}
	return queries, nil
}

// WriteResults writes the rows (header included) starting at the given
// range.
func (c *Client) WriteResults(ctx context.Context, spreadsheetID, writeRange string, rows [][]string) error {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, value := range row {
			cells[j] = value
		}
		values[i] = cells
	}

	res, err := c.svc.Spreadsheets.Values.
		Update(spreadsheetID, writeRange, &sheetsv4.ValueRange{
			Values:         values,
			MajorDimension: "ROWS",
		}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return classify(err)
	}

	slog.InfoContext(ctx, "updated spreadsheet", "spreadsheet", spreadsheetID, "cells", res.UpdatedCells)
	return nil
}

func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrPermission, gerr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, gerr.Message)
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "permission") || strings.Contains(msg, "forbidden") {
		return fmt.Errorf("%w: %s", ErrPermission, err)
	}
	if strings.Contains(msg, "not found") || strings.Contains(msg, "unable to parse range") {
		return fmt.Errorf("%w: %s", ErrNotFound, err)
	}
	return err
}
