// Package cli parses arguments and runs BlueSpace client commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KmNeetuSingh/BlueSpace/internal/client"
	"github.com/KmNeetuSingh/BlueSpace/internal/models"
	"github.com/KmNeetuSingh/BlueSpace/internal/suggest"

	"github.com/gofrs/uuid"
)

// Exit codes.
const (
	Success      = 0
	UserError    = 1
	AuthError    = 2
	BackendError = 3
)

const defaultAPIURL = "http://localhost:8080"

// DefaultStateDir returns the client state directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultStateDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bluespace")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "bluespace"
	}
	return filepath.Join(home, ".config", "bluespace")
}

// Run parses arguments and dispatches to the matching command.
// Returns the exit code.
func Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("bluespace", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	apiURL := fs.String("api", envOr("BLUESPACE_API_URL", defaultAPIURL), "")
	stateDir := fs.String("state", DefaultStateDir(), "")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return UserError
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(out)
		return Success
	}
	name, cmdArgs := rest[0], rest[1:]

	if name == "help" || name == "-h" || name == "--help" {
		printUsage(out)
		return Success
	}

	store, err := client.NewStore(*stateDir, client.NewAPIClient(*apiURL))
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return UserError
	}

	cmd, ok := commandTable[name]
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return UserError
	}

	if cmd.needsAuth && !store.LoggedIn() {
		fmt.Fprintln(errOut, "error: not logged in (run: bluespace login <email> <password>)")
		return AuthError
	}

	return cmd.run(ctx, store, cmdArgs, out, errOut)
}

type command struct {
	needsAuth bool
	synopsis  string
	run       func(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int
}

var commandTable = map[string]command{
	"register": {false, "Create an account and start a session", cmdRegister},
	"login":    {false, "Log in and persist the session", cmdLogin},
	"logout":   {false, "Revoke the session and clear local state", cmdLogout},
	"tasks":    {true, "List your tasks", cmdTasks},
	"add":      {true, "Add a task", cmdAdd},
	"edit":     {true, "Edit a task by number", cmdEdit},
	"done":     {true, "Mark a task completed", cmdDone},
	"rm":       {true, "Delete a task by number", cmdRm},
	"ai":       {true, "List AI suggestions", cmdAI},
	"suggest":  {true, "Generate an AI suggestion from a prompt", cmdSuggest},
	"ai-rm":    {true, "Delete an AI suggestion by number", cmdAIRm},
	"check":    {true, "Check a suggestion checklist item", cmdCheck},
	"uncheck":  {true, "Uncheck a suggestion checklist item", cmdUncheck},
	"to-task":  {true, "Turn a suggestion into a task", cmdToTask},
	"theme":    {false, "Set the UI theme (light/dark)", cmdTheme},
	"lang":     {false, "Set the preferred language (en/hi)", cmdLang},
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "usage: bluespace [-api <url>] [-state <dir>] <command> [args]")
	fmt.Fprintln(out)
	names := []string{
		"register", "login", "logout", "tasks", "add", "edit", "done", "rm",
		"ai", "suggest", "ai-rm", "check", "uncheck", "to-task", "theme", "lang",
	}
	for _, name := range names {
		fmt.Fprintf(out, "  %-10s %s\n", name, commandTable[name].synopsis)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func backendError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	if apiErr, ok := err.(*client.APIError); ok && apiErr.Status < 500 {
		return UserError
	}
	return BackendError
}

func cmdRegister(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "usage: bluespace register <email> <password> [full name]")
		return UserError
	}
	fullName := strings.Join(args[2:], " ")
	if err := s.RegisterAccount(ctx, args[0], args[1], fullName); err != nil {
		return backendError(errOut, err)
	}
	fmt.Fprintf(out, "registered as %s\n", args[0])
	return Success
}

func cmdLogin(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "usage: bluespace login <email> <password>")
		return UserError
	}
	if err := s.Login(ctx, args[0], args[1]); err != nil {
		return backendError(errOut, err)
	}
	fmt.Fprintln(out, "ok")
	return Success
}

func cmdLogout(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	if !s.LoggedIn() {
		fmt.Fprintln(out, "not logged in")
		return Success
	}
	if err := s.Logout(ctx); err != nil {
		// Local session is already cleared, report but succeed.
		fmt.Fprintf(errOut, "warning: %v\n", err)
	}
	fmt.Fprintln(out, "ok")
	return Success
}

func cmdTasks(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	if err := s.LoadTasks(ctx); err != nil {
		return backendError(errOut, err)
	}
	if len(s.Tasks.Items) == 0 {
		fmt.Fprintln(out, "no tasks")
		return Success
	}
	for i, task := range s.Tasks.Items {
		fmt.Fprintln(out, formatTask(i+1, task))
	}
	return Success
}

func formatTask(num int, task models.Task) string {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("%d. [%s] %s", num, mark, task.Title)
	if task.Priority != "" && task.Priority != models.PriorityMedium {
		line += " (" + task.Priority + ")"
	}
	if task.DueDate != nil {
		line += " due " + task.DueDate.Format("2006-01-02")
	}
	return line
}

func cmdAdd(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	notes := fs.String("notes", "", "")
	priority := fs.String("priority", "", "")
	due := fs.String("due", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return UserError
	}
	title := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "usage: bluespace add [--notes <text>] [--priority <p>] [--due <YYYY-MM-DD>] <title>")
		return UserError
	}

	fields := map[string]interface{}{"title": title}
	if *notes != "" {
		fields["notes"] = *notes
	}
	if *priority != "" {
		fields["priority"] = *priority
	}
	if *due != "" {
		fields["due_date"] = *due
	}

	task, err := s.AddTask(ctx, fields)
	if err != nil {
		return backendError(errOut, err)
	}
	fmt.Fprintf(out, "added: %s\n", task.Title)
	return Success
}

// taskByNumber resolves a 1-based list position against a fresh fetch.
func taskByNumber(ctx context.Context, s *client.Store, arg string) (uuid.UUID, error) {
	num, err := strconv.Atoi(arg)
	if err != nil || num < 1 {
		return uuid.Nil, fmt.Errorf("task number out of range: %s", arg)
	}
	if err := s.LoadTasks(ctx); err != nil {
		return uuid.Nil, err
	}
	if num > len(s.Tasks.Items) {
		return uuid.Nil, fmt.Errorf("task number out of range: %d", num)
	}
	return s.Tasks.Items[num-1].ID, nil
}

func cmdEdit(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "")
	notes := fs.String("notes", "", "")
	priority := fs.String("priority", "", "")
	due := fs.String("due", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return UserError
	}
	if len(fs.Args()) != 1 {
		fmt.Fprintln(errOut, "usage: bluespace edit [--title <t>] [--notes <n>] [--priority <p>] [--due <d>] <number>")
		return UserError
	}

	patch := map[string]interface{}{}
	if *title != "" {
		patch["title"] = *title
	}
	if *notes != "" {
		patch["notes"] = *notes
	}
	if *priority != "" {
		patch["priority"] = *priority
	}
	if *due != "" {
		patch["due_date"] = *due
	}
	if len(patch) == 0 {
		fmt.Fprintln(errOut, "error: nothing to change")
		return UserError
	}

	id, err := taskByNumber(ctx, s, fs.Args()[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return UserError
	}
	task, err := s.UpdateTask(ctx, id, patch)
	if err != nil {
		return backendError(errOut, err)
	}
	fmt.Fprintf(out, "updated: %s\n", task.Title)
	return Success
}

func cmdDone(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "usage: bluespace done <number>")
		return UserError
	}
	id, err := taskByNumber(ctx, s, args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return UserError
	}
	if _, err := s.UpdateTask(ctx, id, map[string]interface{}{"completed": true}); err != nil {
		return backendError(errOut, err)
	}
	fmt.Fprintln(out, "ok")
	return Success
}

func cmdRm(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "usage: bluespace rm <number>")
		return UserError
	}
	id, err := taskByNumber(ctx, s, args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return UserError
	}
	if err := s.DeleteTask(ctx, id); err != nil {
		return backendError(errOut, err)
	}
	fmt.Fprintln(out, "ok")
	return Success
}

func cmdAI(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	if err := s.LoadSuggestions(ctx); err != nil {
		return backendError(errOut, err)
	}
	if len(s.AI.Items) == 0 {
		fmt.Fprintln(out, "no suggestions")
		return Success
	}
	for i, sug := range s.AI.Items {
		title := sug.Title
		if title == "" {
			title = sug.Prompt
		}
		fmt.Fprintf(out, "%d. %s\n", i+1, title)
		items := suggest.ParseItems(sug.SuggestionText)
		checked := s.Checked[sug.ID.String()]
		for j, item := range items {
			mark := " "
			if checked[j] {
				mark = "x"
			}
			fmt.Fprintf(out, "   [%s] %s\n", mark, item)
		}
	}
	return Success
}

func cmdSuggest(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("suggest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return UserError
	}
	prompt := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(prompt) == "" {
		fmt.Fprintln(errOut, "usage: bluespace suggest [--title <t>] <prompt>")
		return UserError
	}

	sug, err := s.Suggest(ctx, *title, prompt)
	if err != nil {
		return backendError(errOut, err)
	}
	for _, item := range suggest.ParseItems(sug.SuggestionText) {
		fmt.Fprintf(out, "[ ] %s\n", item)
	}
	return Success
}

// suggestionByNumber resolves a 1-based list position against a fresh fetch.
func suggestionByNumber(ctx context.Context, s *client.Store, arg string) (uuid.UUID, error) {
	num, err := strconv.Atoi(arg)
	if err != nil || num < 1 {
		return uuid.Nil, fmt.Errorf("suggestion number out of range: %s", arg)
	}
	if err := s.LoadSuggestions(ctx); err != nil {
		return uuid.Nil, err
	}
	if num > len(s.AI.Items) {
		return uuid.Nil, fmt.Errorf("suggestion number out of range: %d", num)
	}
	return s.AI.Items[num-1].ID, nil
}

func cmdAIRm(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "usage: bluespace ai-rm <number>")
		return UserError
	}
	id, err := suggestionByNumber(ctx, s, args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return UserError
	}
	if err := s.RemoveSuggestion(ctx, id); err != nil {
		return backendError(errOut, err)
	}
	fmt.Fprintln(out, "ok")
	return Success
}

func setCheck(ctx context.Context, s *client.Store, args []string, value bool, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "usage: bluespace check|uncheck <suggestion-number> <item-number>")
		return UserError
	}
	id, err := suggestionByNumber(ctx, s, args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return UserError
	}
	item, err := strconv.Atoi(args[1])
	if err != nil || item < 1 {
		fmt.Fprintf(errOut, "error: item number out of range: %s\n", args[1])
		return UserError
	}
	if err := s.SetCheck(id, item-1, value); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return UserError
	}
	fmt.Fprintln(out, "ok")
	return Success
}

func cmdCheck(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	return setCheck(ctx, s, args, true, out, errOut)
}

func cmdUncheck(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	return setCheck(ctx, s, args, false, out, errOut)
}

func cmdToTask(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("to-task", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return UserError
	}
	if len(fs.Args()) != 1 {
		fmt.Fprintln(errOut, "usage: bluespace to-task [--title <t>] <suggestion-number>")
		return UserError
	}
	id, err := suggestionByNumber(ctx, s, fs.Args()[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return UserError
	}
	task, err := s.ToTask(ctx, id, *title)
	if err != nil {
		return backendError(errOut, err)
	}
	fmt.Fprintf(out, "created task: %s\n", task.Title)
	return Success
}

func cmdTheme(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	if len(args) != 1 || (args[0] != "light" && args[0] != "dark") {
		fmt.Fprintln(errOut, "usage: bluespace theme <light|dark>")
		return UserError
	}
	if err := s.SetTheme(args[0]); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return UserError
	}
	fmt.Fprintln(out, "ok")
	return Success
}

func cmdLang(ctx context.Context, s *client.Store, args []string, out, errOut io.Writer) int {
	if len(args) != 1 || (args[0] != "en" && args[0] != "hi") {
		fmt.Fprintln(errOut, "usage: bluespace lang <en|hi>")
		return UserError
	}
	if err := s.SetLang(args[0]); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return UserError
	}
	fmt.Fprintln(out, "ok")
	return Success
}
