package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// searchRequest mirrors the ledharvest API request model.
type searchRequest struct {
	Province    string `json:"province,omitempty"`
	District    string `json:"district,omitempty"`
	Subdistrict string `json:"subdistrict,omitempty"`
	MaxPages    int    `json:"max_pages,omitempty"`
	MaxAge      int    `json:"max_age_ms,omitempty"`
}

// searchResponse mirrors the ledharvest API response model.
type searchResponse struct {
	Success      bool   `json:"success"`
	Total        int    `json:"total"`
	PagesFetched int    `json:"pages_fetched"`
	Capped       bool   `json:"capped"`
	Status       string `json:"status"`
	Records      []struct {
		OrderNumber    string   `json:"order_number"`
		LotSet         string   `json:"lot_set"`
		CaseNumber     string   `json:"case_number"`
		PropertyType   string   `json:"property_type"`
		AreaRai        float64  `json:"area_rai"`
		AreaNgan       float64  `json:"area_ngan"`
		AreaSqWa       float64  `json:"area_sq_wa"`
		AppraisedPrice *float64 `json:"appraised_price"`
		Subdistrict    string   `json:"subdistrict"`
		District       string   `json:"district"`
		Province       string   `json:"province"`
	} `json:"records"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("LEDHARVEST_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("LEDHARVEST_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "LEDHARVEST_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"ledharvest",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	searchTool := mcp.NewTool("led_search",
		mcp.WithDescription("Search Thai Legal Execution Department property-auction listings by location. Drives a headless browser against the public registry; a search takes tens of seconds."),
		mcp.WithString("province",
			mcp.Description("Province name in Thai, e.g. กรุงเทพมหานคร"),
		),
		mcp.WithString("district",
			mcp.Description("District name; the เขต/อำเภอ prefix is accepted and stripped"),
		),
		mcp.WithString("subdistrict",
			mcp.Description("Subdistrict name; the ตำบล/แขวง prefix is accepted and stripped"),
		),
		mcp.WithNumber("max_pages",
			mcp.Description("Cap on result pages fetched (default: 0 = all pages)"),
		),
	)

	s.AddTool(searchTool, handleSearch(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleSearch(apiURL, apiKey string) server.ToolHandlerFunc {
	// A full walk of a large result set can take minutes of settle delays.
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reqBody := searchRequest{
			Province:    request.GetString("province", ""),
			District:    request.GetString("district", ""),
			Subdistrict: request.GetString("subdistrict", ""),
			MaxPages:    request.GetInt("max_pages", 0),
		}

		body, err := json.Marshal(reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/search", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("X-API-Key", apiKey)

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var searchResp searchResponse
		if err := json.Unmarshal(respBody, &searchResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !searchResp.Success {
			errMsg := "search failed"
			if searchResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", searchResp.Error.Code, searchResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(formatListings(&searchResp)), nil
	}
}

// formatListings renders the result set as a compact text table.
func formatListings(resp *searchResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d listings across %d pages", resp.Total, resp.PagesFetched)
	if resp.Capped {
		b.WriteString(" (capped)")
	}
	if resp.Status != "" {
		fmt.Fprintf(&b, "\nNote: %s", resp.Status)
	}
	b.WriteString("\n")

	for _, r := range resp.Records {
		price := "unknown"
		if r.AppraisedPrice != nil {
			price = fmt.Sprintf("%.0f baht", *r.AppraisedPrice)
		}
		fmt.Fprintf(&b, "\n#%s lot %s case %s | %s | %.1f rai %.1f ngan %.1f sq.wa | %s | %s / %s / %s",
			r.OrderNumber, r.LotSet, r.CaseNumber, r.PropertyType,
			r.AreaRai, r.AreaNgan, r.AreaSqWa, price,
			r.Subdistrict, r.District, r.Province,
		)
	}
	return b.String()
}
