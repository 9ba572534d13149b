package agent

import (
	"context"
	"fmt"
	"strconv"

	"taskpilot/internal/governance"
	"taskpilot/internal/observability"
	"taskpilot/internal/tools"
)

// ProductSource generates sample product data.
type ProductSource interface {
	Generate(ctx context.Context, count int) ([]tools.Product, error)
}

// SheetService is the spreadsheet tool contract.
type SheetService interface {
	CreateSheet(title string) (string, error)
	WriteRows(id string, header []string, rows [][]string) error
	ShareableLink(id string) (string, error)
	Export(id, format string) (string, error)
}

// EmailSender dispatches one email.
type EmailSender interface {
	Send(ctx context.Context, em tools.EmailMessage) error
}

// Executor runs one action at a time against the tools, threading a
// shared results bag between dependent actions. It never returns an
// error: every failure is captured in the outcome text so the remaining
// actions of the plan still run.
type Executor struct {
	Products ProductSource
	Sheets   SheetService
	Email    EmailSender
	Policy   governance.PolicyEngine
	Logger   *observability.Logger

	// Sender is the From address used on send_email actions.
	Sender string
}

// Execute runs a single action. The results map is shared across the
// whole plan run and never reset mid-run; later actions consume keys
// ("products", "sheet", "exportPath") written by earlier ones, which is
// why actions must run sequentially and in order.
func (e *Executor) Execute(ctx context.Context, action *Action, results map[string]any) string {
	outcome := e.run(ctx, action, results)
	e.Logger.LogAction(ThreadID(ctx), string(action.Type), action.Description, outcome)
	return outcome
}

func (e *Executor) run(ctx context.Context, action *Action, results map[string]any) string {
	if e.Policy != nil {
		res, err := e.Policy.Evaluate(ctx, governance.Request{
			ActionType: string(action.Type),
			Parameters: action.Parameters,
			ThreadID:   ThreadID(ctx),
		})
		if err != nil {
			return fmt.Sprintf("Action failed: policy evaluation error: %v", err)
		}
		if res.Effect == governance.EffectDeny {
			return fmt.Sprintf("Action failed: %s", res.Reason)
		}
	}

	switch action.Type {
	case ActionGenerateProducts:
		return e.generateProducts(ctx, action, results)
	case ActionCreateSheet:
		return e.createSheet(ctx, action, results)
	case ActionExportSheet:
		return e.exportSheet(ctx, action, results)
	case ActionSendEmail:
		return e.sendEmail(ctx, action, results)
	default:
		return fmt.Sprintf("Unknown action type: %s", action.Type)
	}
}

func (e *Executor) generateProducts(ctx context.Context, action *Action, results map[string]any) string {
	count := 10
	if raw, ok := action.Parameters["num_products"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Sprintf("Action failed: invalid num_products %q", raw)
		}
		count = n
	}

	products, err := e.Products.Generate(ctx, count)
	if err != nil {
		return fmt.Sprintf("Action failed: %v", err)
	}

	results["products"] = products
	return fmt.Sprintf("Generated %d products", len(products))
}

func (e *Executor) createSheet(_ context.Context, action *Action, results map[string]any) string {
	products, ok := results["products"].([]tools.Product)
	if !ok {
		return "Action failed: no product data available; run generate_products first"
	}

	title := action.Parameters["title"]
	id, err := e.Sheets.CreateSheet(title)
	if err != nil {
		return fmt.Sprintf("Action failed: %v", err)
	}

	header, rows := tools.Rows(products)
	if err := e.Sheets.WriteRows(id, header, rows); err != nil {
		return fmt.Sprintf("Action failed: %v", err)
	}

	link, err := e.Sheets.ShareableLink(id)
	if err != nil {
		return fmt.Sprintf("Action failed: %v", err)
	}

	results["sheet"] = SheetRef{ID: id, Link: link}
	return fmt.Sprintf("Created sheet %q: %s", title, link)
}

func (e *Executor) exportSheet(_ context.Context, action *Action, results map[string]any) string {
	sheet, ok := results["sheet"].(SheetRef)
	if !ok {
		return "Action failed: no sheet available; run create_sheet first"
	}

	format := action.Parameters["format"]
	path, err := e.Sheets.Export(sheet.ID, format)
	if err != nil {
		return fmt.Sprintf("Action failed: %v", err)
	}

	results["exportPath"] = path
	return fmt.Sprintf("Exported sheet to %s", path)
}

func (e *Executor) sendEmail(ctx context.Context, action *Action, results map[string]any) string {
	sheet, ok := results["sheet"].(SheetRef)
	if !ok {
		return "Action failed: no sheet available; run create_sheet first"
	}

	body := action.Parameters["body"]
	if sheet.Link != "" {
		if body != "" {
			body += "\n\n"
		}
		body += fmt.Sprintf("Sheet link: %s", sheet.Link)
	}

	em := tools.EmailMessage{
		Sender:    e.Sender,
		Recipient: action.Parameters["recipient"],
		Subject:   action.Parameters["subject"],
		Body:      body,
	}
	if err := e.Email.Send(ctx, em); err != nil {
		return fmt.Sprintf("Action failed: %v", err)
	}

	return fmt.Sprintf("Email sent to %s (subject: %s)", em.Recipient, em.Subject)
}
