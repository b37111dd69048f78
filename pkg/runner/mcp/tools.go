package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/dailyreport/pkg/store"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListReportsTool(srv, svc)
	registerGetReportTool(srv, svc)
	registerSaveReportTool(srv, svc)
	registerDeleteReportTool(srv, svc)
	registerExportReportTool(srv, svc)
	registerCalendarTool(srv, svc)
}

func registerListReportsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_reports",
		mcp.WithDescription("List saved daily reports, newest first."),
		mcp.WithString("month",
			mcp.Description("Optional month to limit the list to, formatted YYYY-MM."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args MonthArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		reports, err := svc.ListReports(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"month":   args.Month,
			"reports": reports,
			"count":   len(reports),
		})
	})
}

func registerGetReportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_report",
		mcp.WithDescription("Fetch the report saved for a day."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day to fetch, formatted YYYY-MM-DD."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := request.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.GetReport(ctx, DateArgs{Date: date})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSaveReportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"save_report",
		mcp.WithDescription("Create or replace the report for a day. Days after today are rejected."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day to save, formatted YYYY-MM-DD."),
		),
		mcp.WithString("company",
			mcp.Description("Company or client worked for. Omit to keep the saved value."),
		),
		mcp.WithString("report",
			mcp.Description("Free-form report body; newlines are kept. Omit to keep the saved value."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SaveArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.SaveReport(ctx, args)
		switch {
		case store.IsPersistenceError(err):
			return toJSONResult(map[string]any{
				"report":  dto,
				"warning": err.Error(),
			})
		case err != nil:
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"report": dto,
		})
	})
}

func registerDeleteReportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_report",
		mcp.WithDescription("Delete the report saved for a day."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day to delete, formatted YYYY-MM-DD."),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := request.RequireString("date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		err = svc.DeleteReport(ctx, DateArgs{Date: date})
		switch {
		case store.IsPersistenceError(err):
			return toJSONResult(map[string]any{
				"deleted": date,
				"warning": err.Error(),
			})
		case err != nil:
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"deleted": date,
		})
	})
}

func registerExportReportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"export_report",
		mcp.WithDescription("Write a PDF of one day's report, or of every saved report when no date is given."),
		mcp.WithString("date",
			mcp.Description("Optional day to export, formatted YYYY-MM-DD."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ExportArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		result, err := svc.ExportReport(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(result)
	})
}

func registerCalendarTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"month_calendar",
		mcp.WithDescription("Show a month with the days that have saved reports."),
		mcp.WithString("month",
			mcp.Description("Month to show, formatted YYYY-MM. Defaults to the current month."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args MonthArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.Calendar(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
