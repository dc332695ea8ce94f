// complainctl is a terminal front end for the complaint portal. Each command
// corresponds to one view of the web client: the route guard decides whether
// the view may render, the API façades do the talking, and the session store
// keeps the login across invocations.
package main

import (
	"fmt"
	"os"
	"strconv"

	"complaint_portal/internal/client/api"
	"complaint_portal/internal/client/authstate"
	"complaint_portal/internal/client/guard"
	"complaint_portal/internal/client/session"
	"complaint_portal/internal/model"

	"github.com/spf13/cobra"
)

type app struct {
	client *api.Client
	auth   *authstate.State
}

// requireView evaluates the route guard for a protected view. A redirect
// outcome is reported to the user instead of rendering the view, matching
// the silent redirect the web client performs.
func (a *app) requireView(route string, allowedRoles ...string) error {
	decision := guard.Evaluate(a.auth.CurrentUser(), allowedRoles)
	if decision.Outcome == guard.Redirect {
		if decision.Target == guard.RouteLogin {
			return fmt.Errorf("%s requires a login, run 'complainctl login' first", route)
		}
		return fmt.Errorf("%s is not available for your role, go to %s", route, decision.Target)
	}
	return nil
}

func main() {
	var (
		baseURL    string
		sessionDir string
		a          app
	)

	rootCmd := &cobra.Command{
		Use:           "complainctl",
		Short:         "Citizen complaint portal client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir := sessionDir
			if dir == "" {
				var err error
				dir, err = session.DefaultDir()
				if err != nil {
					return err
				}
			}
			store, err := session.NewStore(dir)
			if err != nil {
				return err
			}
			a.client = api.NewClient(baseURL, store)
			a.auth = authstate.New(store)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&baseURL, "api", api.DefaultBaseURL, "backend API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionDir, "session-dir", "", "directory holding the saved session (default ~/.complainctl)")

	rootCmd.AddCommand(
		loginCmd(&a), registerCmd(&a), logoutCmd(&a), whoamiCmd(&a), homeCmd(&a),
		categoriesCmd(&a), submitCmd(&a), myCmd(&a), listCmd(&a),
		usersCmd(&a), officialsCmd(&a), promoteCmd(&a),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := a.auth.Login(*res); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", res.User.Name, res.User.Role)
			fmt.Printf("Your dashboard: %s\n", guard.HomeRoute(res.User.Role))
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func registerCmd(a *app) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new citizen account",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.client.Register(cmd.Context(), model.RegisterRequest{
				Name: name, Email: email, Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Println("Account created, you can now log in")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (min 8 characters)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the cached user record",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.CurrentUser()
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Println("Not logged in")
				return nil
			}
			fmt.Printf("%s <%s> id=%d role=%s\n", user.Name, user.Email, user.ID, user.Role)
			return nil
		},
	}
}

func homeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show where the root route would take you",
		RunE: func(cmd *cobra.Command, args []string) error {
			user := a.auth.CurrentUser()
			decision := guard.Evaluate(user, nil)
			if decision.Outcome == guard.Redirect {
				fmt.Println(decision.Target)
				return nil
			}
			fmt.Println(guard.HomeRoute(user.Role))
			return nil
		},
	}
}

func categoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List complaint categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := a.client.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range categories {
				fmt.Printf("%3d  %s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func submitCmd(a *app) *cobra.Command {
	var req api.SubmitComplaintRequest
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new complaint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireView(guard.RouteSubmitComplaint, model.RoleUser); err != nil {
				return err
			}
			complaint, err := a.client.Submit(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Complaint #%d registered (status: %s)\n", complaint.ID, complaint.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "complaint title")
	cmd.Flags().StringVar(&req.Description, "description", "", "complaint description")
	cmd.Flags().IntVar(&req.CategoryID, "category", 0, "category id (see 'categories')")
	cmd.Flags().StringVar(&req.District, "district", "", "district name")
	cmd.Flags().Float64Var(&req.Latitude, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&req.Longitude, "lon", 0, "longitude")
	cmd.Flags().BoolVar(&req.IsPublic, "public", false, "make the complaint publicly visible")
	cmd.Flags().StringVar(&req.EvidencePath, "evidence", "", "path to an evidence file (jpg, png or pdf)")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("description")
	cmd.MarkFlagRequired("category")
	return cmd
}

func myCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "my",
		Short: "List your own complaints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireView(guard.RouteUserDashboard, model.RoleUser); err != nil {
				return err
			}
			complaints, err := a.client.ListMine(cmd.Context())
			if err != nil {
				return err
			}
			printComplaints(complaints)
			return nil
		},
	}
}

func listCmd(a *app) *cobra.Command {
	var filter api.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse the complaint feed (officials and admins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireView(guard.RouteOfficialDashboard, model.RoleOfficial, model.RoleAdmin); err != nil {
				return err
			}
			complaints, err := a.client.ListFiltered(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printComplaints(complaints)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.District, "district", "", "filter by district")
	cmd.Flags().StringVar(&filter.Category, "category", "", "filter by category id")
	cmd.Flags().StringVar(&filter.Status, "status", "", "filter by status (pending, in_progress, resolved)")
	cmd.Flags().StringVar(&filter.UserID, "userid", "", "filter by submitting user id")
	return cmd
}

func usersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List accounts (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireView(guard.RouteAdminDashboard, model.RoleAdmin); err != nil {
				return err
			}
			users, err := a.client.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(users)
			return nil
		},
	}
}

func officialsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "officials",
		Short: "List officials (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireView(guard.RouteAdminDashboard, model.RoleAdmin); err != nil {
				return err
			}
			officials, err := a.client.ListOfficials(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(officials)
			return nil
		},
	}
}

func promoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <user-id>",
		Short: "Promote a user to official (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireView(guard.RouteAdminDashboard, model.RoleAdmin); err != nil {
				return err
			}
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			if err := a.client.PromoteToOfficial(cmd.Context(), userID); err != nil {
				return err
			}
			fmt.Printf("User %d is now an official\n", userID)
			return nil
		},
	}
}

func printComplaints(complaints []model.Complaint) {
	if len(complaints) == 0 {
		fmt.Println("No complaints found")
		return
	}
	for _, c := range complaints {
		district := "-"
		if c.District != nil {
			district = *c.District
		}
		fmt.Printf("#%-5d %-12s %-15s %s\n", c.ID, c.Status, district, c.Title)
	}
}

func printUsers(users []model.User) {
	if len(users) == 0 {
		fmt.Println("No accounts found")
		return
	}
	for _, u := range users {
		fmt.Printf("%-5d %-10s %-25s %s\n", u.ID, u.Role, u.Email, u.Name)
	}
}
