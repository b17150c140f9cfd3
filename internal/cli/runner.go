// Package cli implements the todo subcommands on top of a sync session.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go-sync-todo/internal/config"
	"go-sync-todo/internal/credentials"
	"go-sync-todo/internal/models"
	"go-sync-todo/internal/remote"
	"go-sync-todo/internal/todosync"
	"go-sync-todo/internal/tui"
	"go-sync-todo/internal/ui"
)

// Options carries configuration and output streams for Run.
type Options struct {
	Config *config.Client
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Config == nil {
		o.Config = config.ClientFromEnv()
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

type runner struct {
	ctx context.Context
	opt Options
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	opt.defaults()
	r := &runner{ctx: ctx, opt: opt}

	if len(args) == 0 {
		PrintHelp(opt.Stderr)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0

	case "login":
		if len(a) == 1 && a[0] == "--anonymous" {
			return r.doLoginAnonymous()
		}
		if len(a) != 2 {
			return r.usage("todo login <email> <password> | todo login --anonymous")
		}
		return r.doLogin(a[0], a[1])

	case "register":
		if len(a) != 3 {
			return r.usage("todo register <username> <email> <password>")
		}
		return r.doRegister(a[0], a[1], a[2])

	case "logout":
		if err := credentials.Delete(); err != nil {
			return r.fail("logout", err)
		}
		ui.OK(r.opt.Stdout, "logged out")
		return 0

	case "whoami":
		return r.doWhoami()

	case "ls":
		return r.withSession(r.doList)

	case "add":
		task := strings.TrimSpace(strings.Join(a, " "))
		if task == "" {
			return r.usage("todo add <task...>")
		}
		return r.withSession(func(s *todosync.Session) int {
			return r.result("add", "added", s.AddTodo(r.ctx, task))
		})

	case "rm", "toggle", "check", "uncheck":
		if len(a) != 1 {
			return r.usage("todo " + cmd + " <index>")
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail(r.opt.Stderr, cmd+": not a number: "+a[0])
			return 2
		}
		return r.withSession(func(s *todosync.Session) int {
			return r.doIndexed(s, cmd, n)
		})

	case "clear":
		return r.withSession(func(s *todosync.Session) int {
			return r.result("clear", "cleared", s.ClearTodos(r.ctx))
		})

	case "clear-done":
		return r.withSession(func(s *todosync.Session) int {
			return r.result("clear-done", "cleared completed", s.ClearCompletedTodos(r.ctx))
		})

	case "all-done":
		return r.withSession(func(s *todosync.Session) int {
			return r.result("all-done", "completed all", s.CompleteAllTodos(r.ctx))
		})

	case "tui":
		sess, code := r.session()
		if sess == nil {
			return code
		}
		if err := tui.Run(r.ctx, sess); err != nil {
			return r.fail("tui", err)
		}
		return 0
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - a to-do list synced with the data API

Usage:
  todo <subcommand> [args]

Subcommands:
  login <email> <password>             Log in and store the token
  login --anonymous                    Log in as a fresh anonymous user
  register <username> <email> <pass>   Create an account and log in
  logout                               Forget the stored token
  whoami                               Show the logged-in user
  ls                                   List items
  add <task...>                        Add a new item
  rm <index>                           Remove item at 1-based index
  toggle <index>                       Toggle completion of item at index
  check <index> / uncheck <index>      Set completion of item at index
  clear                                Remove all items
  clear-done                           Remove completed items
  all-done                             Mark every item completed
  tui                                  Interactive mode

Environment:
  TODO_API_URL   data API base URL (default http://localhost:8080)
  TODO_TOKEN     token to use instead of the stored one (with TODO_USER_ID)
  TODO_DEBUG     log requests to stderr
`)
}

// -------------- auth ----------------

func (r *runner) auth() *remote.AuthClient {
	return remote.NewAuthClient(r.opt.Config.APIURL)
}

func (r *runner) store(res *models.LoginResponse, anonymous bool) int {
	if err := credentials.Set(credentials.Credentials{Token: res.Token, UserID: res.UserID, Anonymous: anonymous}); err != nil {
		return r.fail("save credentials", err)
	}
	return 0
}

func (r *runner) doLogin(email, password string) int {
	res, err := r.auth().Login(r.ctx, email, password)
	if err != nil {
		return r.fail("login", err)
	}
	if code := r.store(res, false); code != 0 {
		return code
	}
	ui.OK(r.opt.Stdout, "logged in as "+email)
	return 0
}

func (r *runner) doLoginAnonymous() int {
	res, err := r.auth().LoginAnonymous(r.ctx)
	if err != nil {
		return r.fail("login", err)
	}
	if code := r.store(res, true); code != 0 {
		return code
	}
	ui.OK(r.opt.Stdout, "logged in anonymously ("+res.UserID+")")
	return 0
}

func (r *runner) doRegister(username, email, password string) int {
	if _, err := r.auth().Register(r.ctx, username, email, password); err != nil {
		return r.fail("register", err)
	}
	return r.doLogin(email, password)
}

func (r *runner) doWhoami() int {
	creds, code := r.credentials()
	if creds == nil {
		return code
	}
	u, err := r.auth().Me(r.ctx, creds.Token)
	if err != nil {
		return r.fail("whoami", err)
	}
	name := u.Username
	if u.Email != "" {
		name += " <" + u.Email + ">"
	}
	fmt.Fprintf(r.opt.Stdout, "%s  %s\n", name, ui.MutedStyle.Render("id="+u.ID+" role="+u.Role+" via "+creds.Source))
	return 0
}

// -------------- session ----------------

func (r *runner) credentials() (*credentials.Credentials, int) {
	creds, err := credentials.Get(r.opt.Config.Token, r.opt.Config.UserID)
	if err != nil {
		return nil, r.fail("credentials", err)
	}
	if creds == nil {
		ui.Fail(r.opt.Stderr, "not logged in")
		fmt.Fprintln(r.opt.Stderr, ui.MutedStyle.Render("Hint: run `todo login --anonymous`"))
		return nil, 1
	}
	if creds.UserID == "" {
		ui.Fail(r.opt.Stderr, "TODO_USER_ID must be set together with TODO_TOKEN")
		return nil, 1
	}
	return creds, 0
}

// session builds an activated session for the stored credentials.
func (r *runner) session() (*todosync.Session, int) {
	creds, code := r.credentials()
	if creds == nil {
		return nil, code
	}
	s := todosync.New(remote.NewClient(r.opt.Config.APIURL, creds.Token), creds.UserID,
		todosync.WithLogger(r.opt.Logger))
	if err := s.Activate(r.ctx); err != nil {
		return nil, r.fail("load", err)
	}
	return s, 0
}

func (r *runner) withSession(fn func(s *todosync.Session) int) int {
	s, code := r.session()
	if s == nil {
		return code
	}
	return fn(s)
}

func (r *runner) doIndexed(s *todosync.Session, cmd string, userIndex int) int {
	items := s.Items()
	if userIndex < 1 || userIndex > len(items) {
		ui.Fail(r.opt.Stderr, fmt.Sprintf("index out of range: have %d, got %d", len(items), userIndex))
		fmt.Fprintln(r.opt.Stderr, ui.MutedStyle.Render("Hint: run `todo ls` to see valid indexes"))
		return 2
	}
	id := items[userIndex-1].ID
	switch cmd {
	case "rm":
		return r.result(cmd, "removed", s.RemoveTodo(r.ctx, id))
	case "toggle":
		return r.result(cmd, "toggled", s.ToggleTodoStatus(r.ctx, id))
	case "check":
		return r.result(cmd, "checked", s.SetTodoCompletionStatus(r.ctx, id, true))
	default:
		return r.result(cmd, "unchecked", s.SetTodoCompletionStatus(r.ctx, id, false))
	}
}

func (r *runner) doList(s *todosync.Session) int {
	items := s.Items()
	d, _ := ui.Stats(items)

	lines := []string{
		ui.Header(items),
		ui.MutedStyle.Render(ui.ProgressBar(d, len(items), 28)),
		"",
	}
	if len(items) == 0 {
		lines = append(lines, ui.EmptyMessage(s.HasHadTodos()))
	}
	for i, it := range items {
		lines = append(lines, fmt.Sprintf("%2d. %s", i+1, ui.ItemLine(it)))
	}
	lines = append(lines, "", ui.MutedStyle.Render("Tip: add with `todo add \"Buy milk\"`"))
	fmt.Fprintln(r.opt.Stdout, ui.Panel(lines))
	return 0
}

// -------------- output ----------------

func (r *runner) result(op, msg string, err error) int {
	if err != nil {
		return r.fail(op, err)
	}
	ui.OK(r.opt.Stdout, msg)
	return 0
}

func (r *runner) usage(text string) int {
	ui.Fail(r.opt.Stderr, "usage: "+text)
	return 2
}

func (r *runner) fail(op string, err error) int {
	ui.Fail(r.opt.Stderr, op+": "+err.Error())
	if errors.Is(err, remote.ErrUnauthorized) {
		fmt.Fprintln(r.opt.Stderr, ui.MutedStyle.Render("Hint: run `todo login` again"))
	}
	return 1
}
