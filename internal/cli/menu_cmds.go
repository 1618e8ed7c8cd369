package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/restaurant-site/internal/domain"
	"github.com/spec-kit/restaurant-site/internal/reorder"
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Show the public menu as visitors see it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				categories []domain.Category
				info       *domain.Restaurant
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				categories, err = a.api.Categories(ctx)
				return err
			})
			g.Go(func() (err error) {
				info, err = a.api.Restaurant(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return a.explain(err)
			}
			a.print(formatRestaurant(info)+"\n\n"+formatCategories(categories, false), map[string]any{
				"restaurant": info,
				"categories": categories,
			})
			return nil
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "List and edit menu categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every category with its items in display order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			categories, err := a.api.AdminCategories(cmd.Context())
			if err != nil {
				return a.explain(err)
			}
			a.print(formatCategories(categories, true), categories)
			return nil
		},
	}

	var addForm categoryForm
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			input := domain.Category{IsVisible: true}
			addForm.apply(cmd, &input)
			created, err := a.api.CreateCategory(cmd.Context(), input)
			if err != nil {
				return a.explain(err)
			}
			a.print(fmt.Sprintf("created category %s [%s]", created.Name, created.ID), created)
			return nil
		},
	}
	addForm.bind(add)

	var updateForm categoryForm
	update := &cobra.Command{
		Use:   "update <category-id>",
		Short: "Edit a category; flags left out keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			current, err := a.adminCategory(cmd, args[0])
			if err != nil {
				return err
			}
			updateForm.apply(cmd, &current)
			updated, err := a.api.UpdateCategory(cmd.Context(), args[0], current)
			if err != nil {
				return a.explain(err)
			}
			a.print(fmt.Sprintf("updated category %s [%s]", updated.Name, updated.ID), updated)
			return nil
		},
	}
	updateForm.bind(update)

	remove := &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.api.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return a.explain(err)
			}
			a.print("deleted category "+args[0], map[string]string{"deleted": args[0]})
			return nil
		},
	}

	cmd.AddCommand(list, add, update, remove)
	return cmd
}

func newItemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Edit and reorder the items of a category",
	}

	var addForm itemForm
	add := &cobra.Command{
		Use:   "add <category-id>",
		Short: "Append an item to a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			input := domain.Item{IsAvailable: true}
			addForm.apply(cmd, &input)
			created, err := a.api.CreateItem(cmd.Context(), args[0], input)
			if err != nil {
				return a.explain(err)
			}
			a.print(fmt.Sprintf("added %s (%.2f)", created.Name, created.Price), created)
			return nil
		},
	}
	addForm.bind(add)

	var updateForm itemForm
	update := &cobra.Command{
		Use:   "update <category-id> <item-name>",
		Short: "Edit an item; flags left out keep their current value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			category, err := a.adminCategory(cmd, args[0])
			if err != nil {
				return err
			}
			var current *domain.Item
			for i := range category.Items {
				if category.Items[i].Name == args[1] {
					current = &category.Items[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("no item %q in category %s", args[1], args[0])
			}
			updateForm.apply(cmd, current)
			updated, err := a.api.UpdateItem(cmd.Context(), args[0], args[1], *current)
			if err != nil {
				return a.explain(err)
			}
			a.print(fmt.Sprintf("updated %s (%.2f)", updated.Name, updated.Price), updated)
			return nil
		},
	}
	updateForm.bind(update)

	remove := &cobra.Command{
		Use:   "delete <category-id> <item-name>",
		Short: "Delete an item by name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.api.DeleteItem(cmd.Context(), args[0], args[1]); err != nil {
				return a.explain(err)
			}
			a.print("deleted "+args[1], map[string]string{"deleted": args[1]})
			return nil
		},
	}

	move := &cobra.Command{
		Use:   "move <category-id> <item-id> <target-item-id|position>",
		Short: "Move an item onto another item's position",
		Long: `Move drags one item onto another within the same category. The target is either the id
of the item whose place it takes or a 1-based position.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			return a.move(cmd, args[0], args[1], args[2])
		},
	}

	cmd.AddCommand(add, update, remove, move)
	return cmd
}

// categoryForm holds the flags shared by categories add and update.
type categoryForm struct {
	name, color, icon string
	sort              int
	hidden            bool
}

func (f *categoryForm) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Category name")
	cmd.Flags().StringVar(&f.color, "color", "", "Color tag, a name like red or a #hex value")
	cmd.Flags().StringVar(&f.icon, "icon", "", "Icon glyph shown before the name")
	cmd.Flags().IntVar(&f.sort, "sort", 0, "Sort order, lower first")
	cmd.Flags().BoolVar(&f.hidden, "hidden", false, "Hide the category from the public menu")
}

// apply copies the flags that were set onto c.
func (f *categoryForm) apply(cmd *cobra.Command, c *domain.Category) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		c.Name = f.name
	}
	if flags.Changed("color") {
		c.ColorTag = f.color
	}
	if flags.Changed("icon") {
		c.IconGlyph = f.icon
	}
	if flags.Changed("sort") {
		c.SortOrder = f.sort
	}
	if flags.Changed("hidden") {
		c.IsVisible = !f.hidden
	}
}

// itemForm holds the flags shared by items add and update.
type itemForm struct {
	name, description string
	price             float64
	unavailable       bool
}

func (f *itemForm) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Item name, unique within the category")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Price")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().BoolVar(&f.unavailable, "unavailable", false, "Hide the item from the public menu")
}

func (f *itemForm) apply(cmd *cobra.Command, i *domain.Item) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		i.Name = f.name
	}
	if flags.Changed("price") {
		i.Price = f.price
	}
	if flags.Changed("description") {
		i.Description = f.description
	}
	if flags.Changed("unavailable") {
		i.IsAvailable = !f.unavailable
	}
}

// adminCategory fetches the current state of one category the way the admin sees it.
func (a *app) adminCategory(cmd *cobra.Command, id string) (domain.Category, error) {
	categories, err := a.api.AdminCategories(cmd.Context())
	if err != nil {
		return domain.Category{}, a.explain(err)
	}
	for _, c := range categories {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Category{}, fmt.Errorf("no category %s", id)
}

func (a *app) move(cmd *cobra.Command, categoryID, itemID, target string) error {
	engine := reorder.NewEngine(a.api, reorder.WithLogger(a.logger))
	if err := engine.Load(cmd.Context()); err != nil {
		return a.explain(err)
	}

	category, ok := engine.Board().Category(categoryID)
	if !ok {
		return fmt.Errorf("no category %s", categoryID)
	}
	targetID := target
	if pos, err := strconv.Atoi(target); err == nil {
		if pos < 1 || pos > len(category.Items) {
			return fmt.Errorf("position %d is outside 1..%d", pos, len(category.Items))
		}
		targetID = category.Items[pos-1].ID
	}

	moved, err := engine.Drop(cmd.Context(), reorder.Ref{CategoryID: categoryID, ItemID: itemID},
		reorder.Ref{CategoryID: categoryID, ItemID: targetID})
	if err != nil {
		return a.explain(err)
	}
	category, _ = engine.Board().Category(categoryID)
	if !moved {
		a.print("nothing to move\n"+formatCategories([]domain.Category{category}, true), category)
		return nil
	}
	a.print(formatCategories([]domain.Category{category}, true), category)
	return nil
}
