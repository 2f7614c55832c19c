// Package cli is the terminal presentation layer: a menu loop that logs a
// user in, gates every operation through the auth capability table, and
// renders results. It contains no business logic.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"boozetrack/auth"
	"boozetrack/catalog"
	"boozetrack/inventory"
	"boozetrack/logger"
	"boozetrack/model"
	"boozetrack/report"
	"boozetrack/sales"
)

type App struct {
	gate     *auth.Gate
	catalog  *catalog.Catalog
	tracker  *inventory.Tracker
	sales    *sales.Processor
	reporter *report.Reporter

	in  *bufio.Scanner
	out io.Writer
	pr  *message.Printer
	log zerolog.Logger
}

// New wires the components over one shared database connection. dbPath is
// passed through to the reporter so exports cannot clobber the live file.
func New(db *sqlx.DB, dbPath string) *App {
	return &App{
		gate:     auth.New(db),
		catalog:  catalog.New(db),
		tracker:  inventory.New(db),
		sales:    sales.New(db),
		reporter: report.New(db, dbPath),
		in:       bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
		pr:       message.NewPrinter(language.English),
		log:      logger.Get().With().Str("component", "cli").Logger(),
	}
}

// Run is the outer session loop: login, role menu, logout, repeat until the
// user quits.
func (a *App) Run() error {
	fmt.Fprintln(a.out, "--- Team-BOOZE Inventory Tracking System ---")

	for {
		fmt.Fprintln(a.out, "\n[1] Login")
		fmt.Fprintln(a.out, "[0] Exit")
		switch a.prompt("Enter choice: ") {
		case "1":
			session, err := a.login()
			if err != nil {
				fmt.Fprintf(a.out, "Error: %v\n", err)
				continue
			}
			a.sessionLoop(session)
		case "0":
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice, please try again.")
		}
	}
}

func (a *App) login() (*model.Session, error) {
	username := a.prompt("Username: ")
	password := a.prompt("Password: ")
	session, err := a.gate.Login(username, password)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "\nLogin successful. Welcome, %s (%s).\n", session.Username, session.Role)
	return session, nil
}

// sessionLoop shows the operations the session's role can reach and
// dispatches through the single authorization gate.
func (a *App) sessionLoop(session *model.Session) {
	for {
		fmt.Fprintf(a.out, "\n--- %s MENU (%s) ---\n", session.Role, session.Username)
		visible := make(map[string]menuItem)
		for _, item := range menuItems {
			if auth.Authorize(session, item.op) != nil {
				continue
			}
			visible[item.key] = item
			fmt.Fprintf(a.out, "[%s] %s\n", item.key, item.label)
		}
		fmt.Fprintln(a.out, "[0] Log out")

		choice := a.prompt("Enter choice: ")
		if choice == "0" {
			fmt.Fprintln(a.out, "Logging out...")
			return
		}
		item, ok := visible[choice]
		if !ok {
			fmt.Fprintln(a.out, "Invalid choice, please try again.")
			continue
		}
		if err := auth.Authorize(session, item.op); err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			continue
		}
		if err := item.run(a, session); err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
	}
}

// money renders a decimal amount as Euro with thousands separators.
func (a *App) money(d decimal.Decimal) string {
	f, _ := d.Float64()
	return a.pr.Sprintf("€%.2f", f)
}
