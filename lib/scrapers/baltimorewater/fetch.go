package baltimorewater

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/baltimorewater")

// Record is the normalized field set extracted for one query. History
// is only populated when the client was configured with a history table
// and may legitimately be empty.
type Record struct {
	Fields  map[string]string
	History []HistoryRow
}

// GetBillInfo runs one lookup against the portal: load the search page,
// harvest the form's hidden session tokens, post the query, extract
// every configured field from the response. Failures are terminal for
// this query, there are no retries.
func (c *Client) GetBillInfo(ctx context.Context, query string) (Record, error) {
	ctx, span := tracer.Start(ctx, "client:GetBillInfo")
	defer span.End()

	slog.InfoContext(ctx, "fetching bill information", "query", query)

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.base.String())
	if err != nil {
		span.SetStatus(codes.Error, "failed to load search page")
		return Record{}, transportError(fmt.Sprintf("network error: %s", err), err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "search page returned error status")
		return Record{}, transportError(fmt.Sprintf("network error: search page returned %s", res.Status()), nil)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse search page")
		return Record{}, structureError(fmt.Sprintf("could not parse search page: %s", err))
	}

	form := c.findForm(doc)
	if form == nil {
		span.SetStatus(codes.Error, "search form missing")
		return Record{}, structureError("could not find search form")
	}

	formData := map[string]string{}
	form.Find(`input[type="hidden"]`).Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		formData[name] = input.AttrOr("value", "")
	})

	inputName := form.Find(`input[type="text"], input[type="search"]`).First().AttrOr("name", "")
	if inputName == "" {
		inputName = c.opts.InputName
	}
	if inputName == "" {
		span.SetStatus(codes.Error, "query input missing")
		return Record{}, structureError("could not find query input in search form")
	}

	formData[inputName] = query
	formData["searchType"] = c.opts.SearchType
	formData["action"] = c.opts.ActionPath
	formData["submit"] = c.opts.SubmitName

	res, err = c.http.R().
		SetContext(ctx).
		SetHeader("Referer", c.base.String()).
		SetHeader("Origin", c.origin()).
		SetFormData(formData).
		Post(c.submitUrl())
	if err != nil {
		span.SetStatus(codes.Error, "failed to submit search")
		return Record{}, transportError(fmt.Sprintf("network error: %s", err), err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "search returned error status")
		return Record{}, transportError(fmt.Sprintf("network error: search returned %s", res.Status()), nil)
	}

	doc, err = goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse results page")
		return Record{}, structureError(fmt.Sprintf("could not parse results page: %s", err))
	}

	fields := map[string]string{}
	for _, label := range c.opts.Labels {
		fields[label] = Extract(doc, label, c.opts.ScanCells)
	}

	var history []HistoryRow
	if c.opts.HistoryTableID != "" {
		history = extractHistory(doc, c.opts.HistoryTableID)
	}

	if allNotAvailable(fields) && len(history) == 0 {
		span.SetStatus(codes.Error, "no bill information found")
		return Record{}, noDataError()
	}

	slog.DebugContext(ctx, "extracted bill information", "query", query, "fields", len(fields), "history_rows", len(history))
	return Record{Fields: fields, History: history}, nil
}

func (c *Client) findForm(doc *goquery.Document) *goquery.Selection {
	if c.opts.FormID != "" {
		form := doc.Find("form#" + c.opts.FormID)
		if form.Length() == 0 {
			return nil
		}
		return form.First()
	}
	form := doc.Find(`form[method="post"], form[method="POST"]`)
	if form.Length() == 0 {
		return nil
	}
	return form.First()
}

func (c *Client) submitUrl() string {
	return c.origin() + c.opts.ActionPath
}

func (c *Client) origin() string {
	return c.base.Scheme + "://" + c.base.Host
}

func allNotAvailable(fields map[string]string) bool {
	for _, value := range fields {
		if value != NotAvailable {
			return false
		}
	}
	return true
}
