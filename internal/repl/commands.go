package repl

import (
	"context"
	"fmt"
	"strings"

	"imagestudio/internal/domain"
	"imagestudio/internal/studio"
)

// Command is one REPL verb.
type Command interface {
	Name() string
	Aliases() []string
	Description() string
	Usage() string
	Execute(ctx context.Context, r *REPL, args []string) error
}

func (r *REPL) registerCommands() {
	r.ordered = []Command{
		&LoginCommand{},
		&LogoutCommand{},
		&WhoAmICommand{},
		&GenerateCommand{},
		&ActionCommand{},
		&ListCommand{},
		&ShowCommand{},
		&DownloadCommand{},
		&ScalesCommand{},
		&HelpCommand{},
		&QuitCommand{},
	}

	for _, cmd := range r.ordered {
		r.commands[cmd.Name()] = cmd
		for _, alias := range cmd.Aliases() {
			r.commands[alias] = cmd
		}
	}
}

// LoginCommand authenticates with an API key or client credentials.
type LoginCommand struct{}

func (c *LoginCommand) Name() string        { return "login" }
func (c *LoginCommand) Aliases() []string   { return nil }
func (c *LoginCommand) Description() string { return "Log in with an API key or client credentials" }
func (c *LoginCommand) Usage() string {
	return "login apikey <key> | login token <client-id> <client-secret>"
}

func (c *LoginCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	var creds domain.Credentials
	switch domain.AuthMode(strings.ToLower(args[0])) {
	case domain.ModeAPIKey:
		if len(args) != 2 {
			return fmt.Errorf("usage: %s", c.Usage())
		}
		creds = domain.Credentials{Mode: domain.ModeAPIKey, APIKey: args[1]}
	case domain.ModeClientCredentials:
		if len(args) != 3 {
			return fmt.Errorf("usage: %s", c.Usage())
		}
		creds = domain.Credentials{Mode: domain.ModeClientCredentials, ClientID: args[1], ClientSecret: args[2]}
	default:
		return fmt.Errorf("unknown login mode %q (use apikey or token)", args[0])
	}

	res, err := r.ctrl.Login(ctx, creds)
	if err != nil {
		return err
	}
	msg := res.Message
	if msg == "" {
		msg = "Logged in"
	}
	fmt.Fprintf(r.out, "%s (%s)\n", msg, res.AuthType)
	return nil
}

// LogoutCommand ends the session and stops all polling.
type LogoutCommand struct{}

func (c *LogoutCommand) Name() string        { return "logout" }
func (c *LogoutCommand) Aliases() []string   { return nil }
func (c *LogoutCommand) Description() string { return "Log out and clear the gallery" }
func (c *LogoutCommand) Usage() string       { return "logout" }

func (c *LogoutCommand) Execute(ctx context.Context, r *REPL, _ []string) error {
	if err := r.ctrl.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Logged out.")
	return nil
}

// WhoAmICommand shows the session's auth state.
type WhoAmICommand struct{}

func (c *WhoAmICommand) Name() string        { return "whoami" }
func (c *WhoAmICommand) Aliases() []string   { return []string{"status"} }
func (c *WhoAmICommand) Description() string { return "Show the current login state" }
func (c *WhoAmICommand) Usage() string       { return "whoami" }

func (c *WhoAmICommand) Execute(ctx context.Context, r *REPL, _ []string) error {
	res, err := r.ctrl.WhoAmI(ctx)
	if err != nil {
		return err
	}
	if !res.Authenticated {
		fmt.Fprintln(r.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(r.out, "Logged in (%s)\n", res.AuthType)
	return nil
}

// GenerateCommand submits a prompt.
type GenerateCommand struct{}

func (c *GenerateCommand) Name() string        { return "generate" }
func (c *GenerateCommand) Aliases() []string   { return []string{"gen", "g"} }
func (c *GenerateCommand) Description() string { return "Generate images from a prompt" }
func (c *GenerateCommand) Usage() string {
	return "generate [--scale 16:9] [--source <image-url>] <prompt>"
}

func (c *GenerateCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	scale := r.defaultScale
	var source string
	var words []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--scale", "-s":
			if i+1 >= len(args) {
				return fmt.Errorf("usage: %s", c.Usage())
			}
			i++
			scale = args[i]
		case "--source":
			if i+1 >= len(args) {
				return fmt.Errorf("usage: %s", c.Usage())
			}
			i++
			source = args[i]
		default:
			words = append(words, args[i])
		}
	}
	if len(words) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}

	job, err := r.ctrl.SubmitPrompt(ctx, strings.Join(words, " "), scale, source)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Submitted job %s (%s, %s)\n", job.ID, job.AspectRatio, job.Status)
	return nil
}

// ActionCommand upscales or varies one image of a completed job.
type ActionCommand struct{}

func (c *ActionCommand) Name() string        { return "action" }
func (c *ActionCommand) Aliases() []string   { return []string{"variant", "upscale"} }
func (c *ActionCommand) Description() string { return "Upscale (U1-U4) or vary (V1-V4) a completed job" }
func (c *ActionCommand) Usage() string       { return "action <job-id> <U1..U4|V1..V4>" }

func (c *ActionCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	job, err := r.ctrl.RequestAction(ctx, args[0], domain.ActionCode(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Submitted %s job %s from %s\n", job.Kind, job.ID, job.ParentID)
	return nil
}

// ListCommand renders the gallery.
type ListCommand struct{}

func (c *ListCommand) Name() string        { return "list" }
func (c *ListCommand) Aliases() []string   { return []string{"ls"} }
func (c *ListCommand) Description() string { return "Show all jobs, newest first" }
func (c *ListCommand) Usage() string       { return "list" }

func (c *ListCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	return studio.Render(r.out, r.ctrl.Cards(), r.theme)
}

// ShowCommand renders one job.
type ShowCommand struct{}

func (c *ShowCommand) Name() string        { return "show" }
func (c *ShowCommand) Aliases() []string   { return nil }
func (c *ShowCommand) Description() string { return "Show one job" }
func (c *ShowCommand) Usage() string       { return "show <job-id>" }

func (c *ShowCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	card, ok := r.ctrl.Card(args[0])
	if !ok {
		return fmt.Errorf("job %s: %w", args[0], domain.ErrNotFound)
	}
	return studio.RenderCard(r.out, card, r.theme)
}

// DownloadCommand saves a job's images.
type DownloadCommand struct{}

func (c *DownloadCommand) Name() string        { return "download" }
func (c *DownloadCommand) Aliases() []string   { return []string{"dl", "save"} }
func (c *DownloadCommand) Description() string { return "Save a job's images to the output directory" }
func (c *DownloadCommand) Usage() string       { return "download <job-id>" }

func (c *DownloadCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	path, err := r.ctrl.Download(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Saved: %s\n", path)
	return nil
}

// ScalesCommand lists the aspect ratios.
type ScalesCommand struct{}

func (c *ScalesCommand) Name() string        { return "scales" }
func (c *ScalesCommand) Aliases() []string   { return nil }
func (c *ScalesCommand) Description() string { return "List supported aspect ratios" }
func (c *ScalesCommand) Usage() string       { return "scales" }

func (c *ScalesCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	for _, s := range domain.ScaleOptions {
		marker := " "
		if s == r.defaultScale {
			marker = "*"
		}
		fmt.Fprintf(r.out, " %s %s\n", marker, s)
	}
	return nil
}

// HelpCommand lists the commands.
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Aliases() []string   { return []string{"?"} }
func (c *HelpCommand) Description() string { return "Show available commands" }
func (c *HelpCommand) Usage() string       { return "help" }

func (c *HelpCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	fmt.Fprintln(r.out, "Available commands:")
	fmt.Fprintln(r.out)

	for _, cmd := range r.ordered {
		aliases := ""
		if len(cmd.Aliases()) > 0 {
			aliases = fmt.Sprintf(" (%s)", strings.Join(cmd.Aliases(), ", "))
		}
		fmt.Fprintf(r.out, "  %-24s%s\n", cmd.Name()+aliases, cmd.Description())
		fmt.Fprintf(r.out, "  %-24sUsage: %s\n", "", cmd.Usage())
	}

	return nil
}

// QuitCommand exits the REPL.
type QuitCommand struct{}

func (c *QuitCommand) Name() string        { return "quit" }
func (c *QuitCommand) Aliases() []string   { return []string{"exit", "q"} }
func (c *QuitCommand) Description() string { return "Exit interactive mode" }
func (c *QuitCommand) Usage() string       { return "quit" }

func (c *QuitCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	fmt.Fprintln(r.out, "Goodbye!")
	r.Stop()
	return nil
}
