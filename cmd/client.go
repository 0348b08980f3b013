package cmd

import (
	"bufio"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/auth"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/client"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/core/common/validation"
	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
	"github.com/NiranjanKJ304/Exxpense-Tracker/pkg/logger"
)

var (
	apiURL string

	clientEmail    string
	clientPassword string
	clientName     string

	formTitle    string
	formAmount   string
	formCategory string
	formType     string
	formDate     string

	filterCategory string
	filterType     string
	filterFrom     string
	filterTo       string

	assumeYes bool
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd)
		if err != nil {
			return err
		}
		password, err := promptPassword(cmd)
		if err != nil {
			return err
		}
		dto := auth.RegisterDTO{Email: clientEmail, Password: password, Name: clientName}
		if err := cc.api.Register(cmd.Context(), dto); err != nil {
			return clientError(err)
		}
		cmd.Println("Registered", expense.NormalizeOwner(clientEmail), "- run login to continue")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd)
		if err != nil {
			return err
		}
		password, err := promptPassword(cmd)
		if err != nil {
			return err
		}
		result, err := cc.api.Login(cmd.Context(), clientEmail, password)
		if err != nil {
			return clientError(err)
		}
		session := client.Session{Email: result.Email, Token: result.Token, ExpiresAt: result.ExpiresAt}
		if err := cc.store.Save(session); err != nil {
			return err
		}
		cmd.Println("Logged in as", result.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd)
		if err != nil {
			return err
		}
		if cc.session.Token != "" {
			cc.api.SetToken(cc.session.Token)
			if err := cc.api.Logout(cmd.Context()); err != nil {
				cc.logger.Warn("server logout failed", "error", err)
			}
		}
		if err := cc.store.Clear(); err != nil {
			return err
		}
		cmd.Println("Logged out")
		return nil
	},
}

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"exp"},
	Short:   "Show the expense dashboard",
	Long:    `Show the summary cards and expense table for the logged in user, optionally filtered`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, dash, err := openDashboard(cmd)
		if err != nil {
			return err
		}
		return cc.render(cmd, dash)
	},
}

var addExpenseCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an expense",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, dash, err := openDashboard(cmd)
		if err != nil {
			return err
		}
		date := formDate
		if date == "" {
			date = time.Now().UTC().Format(time.DateOnly)
		}
		dash.SetForm(client.Form{Title: formTitle, Amount: formAmount, Category: formCategory, Type: formType, Date: date})
		if err := dash.Submit(cmd.Context()); err != nil {
			return cc.dashboardError(dash, err)
		}
		return cc.render(cmd, dash)
	},
}

var editExpenseCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change an expense; unset flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, dash, err := openDashboard(cmd)
		if err != nil {
			return err
		}
		if err := dash.Edit(args[0]); err != nil {
			return fmt.Errorf("expense %s not found", args[0])
		}

		form := dash.Form()
		flags := cmd.Flags()
		if flags.Changed("title") {
			form.Title = formTitle
		}
		if flags.Changed("amount") {
			form.Amount = formAmount
		}
		if flags.Changed("category") {
			form.Category = formCategory
		}
		if flags.Changed("type") {
			form.Type = formType
		}
		if flags.Changed("date") {
			form.Date = formDate
		}
		dash.SetForm(form)

		if err := dash.Submit(cmd.Context()); err != nil {
			return cc.dashboardError(dash, err)
		}
		return cc.render(cmd, dash)
	},
}

var deleteExpenseCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, dash, err := openDashboard(cmd)
		if err != nil {
			return err
		}
		deleted, err := dash.Delete(cmd.Context(), args[0], confirmer(cmd))
		if err != nil {
			return cc.dashboardError(dash, err)
		}
		if !deleted {
			cmd.Println("Cancelled")
			return nil
		}
		return cc.render(cmd, dash)
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the expense categories and types",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd)
		if err != nil {
			return err
		}
		categories, types, err := cc.api.ListCategories(cmd.Context())
		if err != nil {
			return clientError(err)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tDESCRIPTION")
		for _, c := range categories {
			fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Description)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nTypes: %s\n", strings.Join(types, ", "))
		return nil
	},
}

// clientContext bundles what every client command needs.
type clientContext struct {
	api     *client.APIClient
	store   *client.SessionStore
	session client.Session
	logger  *slog.Logger
}

// clientConfig reads the client section from config.yml, falling back to
// the environment when there is no config file.
func clientConfig() internal.ClientConfig {
	cfg, err := readConfig(configDir)
	if err != nil {
		return internal.LoadConfigFromEnv().Client
	}
	env := internal.LoadConfigFromEnv().Client
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = env.BaseURL
	}
	if cfg.Client.Timeout <= 0 {
		cfg.Client.Timeout = env.Timeout
	}
	return cfg.Client
}

func newClientContext(cmd *cobra.Command) (*clientContext, error) {
	cfg := clientConfig()
	if apiURL != "" {
		cfg.BaseURL = apiURL
	}

	store, err := client.NewSessionStore(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("locate session file: %w", err)
	}
	session, err := store.Load()
	if err != nil {
		return nil, err
	}

	api := client.NewAPIClient(cfg.BaseURL, cfg.Timeout)
	api.SetToken(session.Token)
	return &clientContext{api: api, store: store, session: session, logger: logger.LoggerWrapper()}, nil
}

func openDashboard(cmd *cobra.Command) (*clientContext, *client.Dashboard, error) {
	cc, err := newClientContext(cmd)
	if err != nil {
		return nil, nil, err
	}
	if !cc.session.LoggedIn() {
		return nil, nil, fmt.Errorf("%w: run `%s login` first", client.ErrNotLoggedIn, cmd.Root().Name())
	}

	filter, err := parseFilter()
	if err != nil {
		return nil, nil, err
	}

	dash := client.NewDashboard(cc.api, cc.session, logger.LoggerWrapper())
	if err := dash.Load(cmd.Context()); err != nil {
		return nil, nil, cc.dashboardError(dash, err)
	}
	dash.SetFilter(filter)
	return cc, dash, nil
}

func (cc *clientContext) render(cmd *cobra.Command, dash *client.Dashboard) error {
	return client.Render(cmd.OutOrStdout(), dash)
}

// dashboardError surfaces the banner text. A rejected token also drops the
// stored session so the next command asks for login.
func (cc *clientContext) dashboardError(dash *client.Dashboard, err error) error {
	var apiErr *client.APIError
	if stdErrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		if clearErr := cc.store.Clear(); clearErr != nil {
			cc.logger.Warn("failed to clear session", "error", clearErr)
		}
		return fmt.Errorf("%s: please log in again", apiErr.Message)
	}
	if banner := dash.Banner(); banner != "" {
		return stdErrors.New(banner)
	}
	return err
}

func clientError(err error) error {
	var apiErr *client.APIError
	if stdErrors.As(err, &apiErr) && apiErr.Message != "" {
		return stdErrors.New(apiErr.Message)
	}
	if stdErrors.Is(err, client.ErrNetwork) {
		return stdErrors.New(client.NetworkErrorMessage)
	}
	return err
}

func parseFilter() (client.Filter, error) {
	f := client.Filter{
		Category: expense.Category(strings.TrimSpace(filterCategory)),
		Type:     expense.Type(strings.TrimSpace(filterType)),
	}
	if f.Category != "" && !f.Category.Valid() {
		return f, fmt.Errorf("unknown category %q", f.Category)
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, fmt.Errorf("unknown type %q", f.Type)
	}
	var err error
	if filterFrom != "" {
		if f.From, err = validation.ParseDate(filterFrom); err != nil {
			return f, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if filterTo != "" {
		if f.To, err = validation.ParseDate(filterTo); err != nil {
			return f, fmt.Errorf("invalid --to: %w", err)
		}
	}
	return f, nil
}

func promptPassword(cmd *cobra.Command) (string, error) {
	if clientEmail == "" {
		return "", stdErrors.New("--email is required")
	}
	if clientPassword != "" {
		return clientPassword, nil
	}
	cmd.Print("Password: ")
	line, err := readLine(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return line, nil
}

func confirmer(cmd *cobra.Command) client.Confirmer {
	return client.ConfirmFunc(func(prompt string) bool {
		if assumeYes {
			return true
		}
		cmd.Printf("%s [y/N]: ", prompt)
		answer, err := readLine(cmd.InOrStdin())
		if err != nil {
			return false
		}
		answer = strings.ToLower(answer)
		return answer == "y" || answer == "yes"
	})
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(stdErrors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd, logoutCmd, expensesCmd, categoriesCmd} {
		c.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL, e.g. http://localhost:5000/api")
	}

	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&clientEmail, "email", "", "account email")
		c.Flags().StringVar(&clientPassword, "password", "", "account password; prompted when empty")
	}
	registerCmd.Flags().StringVar(&clientName, "name", "", "display name")

	for _, c := range []*cobra.Command{addExpenseCmd, editExpenseCmd} {
		c.Flags().StringVar(&formTitle, "title", "", "expense title")
		c.Flags().StringVar(&formAmount, "amount", "", "amount, e.g. 12.50")
		c.Flags().StringVar(&formCategory, "category", "", strings.Join(expense.CategoryNames(), ", "))
		c.Flags().StringVar(&formType, "type", "", "Need or Want")
		c.Flags().StringVar(&formDate, "date", "", "YYYY-MM-DD, defaults to today on add")
	}

	expensesCmd.PersistentFlags().StringVar(&filterCategory, "filter-category", "", "only show this category")
	expensesCmd.PersistentFlags().StringVar(&filterType, "filter-type", "", "only show Need or Want")
	expensesCmd.PersistentFlags().StringVar(&filterFrom, "from", "", "only show expenses on or after YYYY-MM-DD")
	expensesCmd.PersistentFlags().StringVar(&filterTo, "to", "", "only show expenses on or before YYYY-MM-DD")
	deleteExpenseCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")

	expensesCmd.AddCommand(addExpenseCmd, editExpenseCmd, deleteExpenseCmd)
}
