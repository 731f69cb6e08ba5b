package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/spf13/cobra"
)

func parseRole(value string) (models.Role, error) {
	role := models.Role(strings.ToUpper(value))
	switch role {
	case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role %q (must be one of STUDENT, TEACHER, ADMIN)", value)
	}
}

func newClassesCmd(a *app) *cobra.Command {
	cmd := newLoggedInCmd(a, "classes", "Manage classes", "class")

	filter := models.ClassFilter{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.api.Classes.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.print(page)
		},
	}
	list.Flags().IntVar(&filter.Page, "page", 0, "page number, all classes when not set")
	list.Flags().IntVar(&filter.Limit, "limit", 0, "page size")
	list.Flags().StringVar(&filter.Search, "search", "", "search in the name")
	list.Flags().StringVar(&filter.TeacherID, "teacher", "", "only classes of this teacher")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := a.api.Classes.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(class)
		},
	}

	create := models.ClassRequest{}
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			create.Name = args[0]
			class, err := a.api.Classes.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			return a.print(class)
		},
	}
	createCmd.Flags().StringVar(&create.Description, "description", "", "description of the class")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.api.Classes.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, get, createCmd, remove)
	return cmd
}

func newUsersCmd(a *app) *cobra.Command {
	cmd := newLoggedInCmd(a, "users", "Manage teachers and students", "user")

	filter := models.UserFilter{}
	var role string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Role = ""
			if role != "" {
				parsed, err := parseRole(role)
				if err != nil {
					return err
				}
				filter.Role = parsed
			}
			page, err := a.api.Users.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.print(page)
		},
	}
	list.Flags().IntVar(&filter.Page, "page", 1, "page number")
	list.Flags().IntVar(&filter.Limit, "limit", 10, "page size")
	list.Flags().StringVar(&role, "role", "", "filter by role (STUDENT, TEACHER, ADMIN)")
	list.Flags().StringVar(&filter.ClassID, "class", "", "filter by class ID")
	list.Flags().StringVar(&filter.Search, "search", "", "search in the name")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.api.Users.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(user)
		},
	}

	create := models.CreateUserRequest{}
	var createRole string
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a teacher or student account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseRole(createRole)
			if err != nil {
				return err
			}
			create.Name = args[0]
			create.Role = parsed
			user, err := a.api.Users.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			return a.print(user)
		},
	}
	createCmd.Flags().StringVar(&createRole, "role", string(models.RoleStudent), "role of the account")
	createCmd.Flags().StringVar(&create.NIS, "nis", "", "student number")
	createCmd.Flags().StringVar(&create.NIP, "nip", "", "teacher number")
	createCmd.Flags().StringVar(&create.Email, "email", "", "email address")
	createCmd.Flags().StringVar(&create.Password, "password", "", "initial password")
	createCmd.Flags().StringVar(&create.ClassID, "class", "", "class of a student")
	createCmd.Flags().StringSliceVar(&create.ClassIDs, "classes", nil, "classes of a teacher")
	createCmd.MarkFlagRequired("password")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.api.Users.Delete(cmd.Context(), args[0])
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <sheet>",
		Short: "Import students from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer sheet.Close()
			result, err := a.api.Users.ImportStudents(cmd.Context(), filepath.Base(args[0]), sheet)
			if err != nil {
				return err
			}
			return a.print(result)
		},
	}

	cmd.AddCommand(list, get, createCmd, remove, importCmd)
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := newLoggedInCmd(a, "categories", "Manage portfolio categories", "category")

	filter := models.CatalogFilter{}
	var activeOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.IsActive = nil
			if activeOnly {
				filter.IsActive = &activeOnly
			}
			page, err := a.api.Categories.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.print(page)
		},
	}
	list.Flags().StringVar(&filter.Search, "search", "", "search in the name")
	list.Flags().BoolVar(&activeOnly, "active", false, "only active categories")

	create := models.CategoryRequest{}
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			create.Name = args[0]
			category, err := a.api.Categories.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			return a.print(category)
		},
	}
	createCmd.Flags().StringVar(&create.Description, "description", "", "description of the category")
	createCmd.Flags().StringVar(&create.Icon, "icon", "", "icon name")

	var force bool
	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.api.Categories.Delete(cmd.Context(), args[0], force)
		},
	}
	remove.Flags().BoolVar(&force, "force", false, "delete even when portfolio entries use it")

	cmd.AddCommand(list, createCmd, remove)
	return cmd
}

func newMediaTypesCmd(a *app) *cobra.Command {
	cmd := newLoggedInCmd(a, "media-types", "Manage artwork media types", "media-type", "mt")

	filter := models.CatalogFilter{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List media types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.api.MediaTypes.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.print(page)
		},
	}
	list.Flags().StringVar(&filter.Search, "search", "", "search in the name")

	create := models.MediaTypeRequest{}
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a media type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			create.Name = args[0]
			mediaType, err := a.api.MediaTypes.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			return a.print(mediaType)
		},
	}
	createCmd.Flags().StringVar(&create.Description, "description", "", "description of the media type")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a media type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.api.MediaTypes.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, createCmd, remove)
	return cmd
}
