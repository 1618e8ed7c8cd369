package domain

import "testing"

func TestCategoryValidate(t *testing.T) {
	if problems := (Category{Name: "Mains"}).Validate(); problems != nil {
		t.Errorf("expected valid category, got %v", problems)
	}
	problems := (Category{Name: "  ", SortOrder: -1}).Validate()
	if problems["name"] == nil || problems["sortOrder"] == nil {
		t.Errorf("expected name and sortOrder problems, got %v", problems)
	}
}

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name  string
		item  Item
		field string
	}{
		{"valid", Item{Name: "Soup", Price: 4.5}, ""},
		{"free is fine", Item{Name: "Water", Price: 0}, ""},
		{"missing name", Item{Price: 3}, "name"},
		{"negative price", Item{Name: "Soup", Price: -1}, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := tt.item.Validate()
			if tt.field == "" {
				if problems != nil {
					t.Errorf("expected no problems, got %v", problems)
				}
				return
			}
			if problems[tt.field] == nil {
				t.Errorf("expected problem on %s, got %v", tt.field, problems)
			}
		})
	}
}

func TestPublicView(t *testing.T) {
	c := Category{
		Name:      "Drinks",
		IsVisible: true,
		Items: []Item{
			{Name: "Tea", IsAvailable: true},
			{Name: "Sake", IsAvailable: false},
			{Name: "Coffee", IsAvailable: true},
		},
	}
	view, ok := c.PublicView()
	if !ok {
		t.Fatal("expected visible category")
	}
	if got := view.ItemNames(); len(got) != 2 || got[0] != "Tea" || got[1] != "Coffee" {
		t.Errorf("unexpected public items %v", got)
	}
	if len(c.Items) != 3 {
		t.Error("public view must not mutate the source category")
	}

	c.IsVisible = false
	if _, ok := c.PublicView(); ok {
		t.Error("expected hidden category to be excluded")
	}
}
