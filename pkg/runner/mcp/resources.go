package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerReportsResource(srv, svc)
	registerReportTemplate(srv, svc)
	registerExportTemplate(srv, svc)
}

func registerReportsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"dailyreport://reports",
		"Saved Reports",
		mcp.WithResourceDescription("Every saved daily report, newest first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		reports, err := svc.ListReports(ctx, MonthArgs{})
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"reports": reports,
			"count":   len(reports),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerReportTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"dailyreport://reports/{date}",
		"Daily Report",
		mcp.WithTemplateDescription("The report saved for one day (YYYY-MM-DD)."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		date := argument(request, "date")
		if date == "" {
			return nil, fmt.Errorf("date is required")
		}

		dto, err := svc.GetReport(ctx, DateArgs{Date: date})
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"report": dto})
	})
}

func registerExportTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"dailyreport://export/{date}",
		"Report PDF",
		mcp.WithTemplateDescription("PDF export of one day (YYYY-MM-DD), or of every report when date is \"all\"."),
		mcp.WithTemplateMIMEType("application/pdf"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		args := ExportArgs{Date: argument(request, "date")}
		if args.Date == "all" {
			args.Date = ""
		}

		doc, err := svc.Render(ctx, args)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.BlobResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/pdf",
				Blob:     base64.StdEncoding.EncodeToString(doc.Bytes()),
			},
		}, nil
	})
}

// argument reads a URI template variable, which the server may hand over
// as a string or a single-element slice.
func argument(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
