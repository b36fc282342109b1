package store

import (
	"context"
	"fmt"

	"github.com/inkwell-cms/apiserver/types"
)

const (
	SeedAdminUsername = "admin"
	SeedAdminEmail    = "admin@example.com"
)

// Seed populates an empty store with an admin account, two categories and two
// published articles. adminPasswordHash must already be a bcrypt digest.
func Seed(ctx context.Context, db *MemoryStore, adminPasswordHash string) error {
	users := NewUserRepository(db)
	categories := NewCategoryRepository(db)
	contents := NewContentRepository(db)

	admin, err := users.Create(ctx, types.User{
		Username:     SeedAdminUsername,
		Email:        SeedAdminEmail,
		PasswordHash: adminPasswordHash,
		Role:         types.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	news, err := categories.Create(ctx, types.Category{
		Name:        "News",
		Slug:        "news",
		Description: "Latest news and updates",
	})
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	tutorials, err := categories.Create(ctx, types.Category{
		Name:        "Tutorials",
		Slug:        "tutorials",
		Description: "Step-by-step guides",
	})
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	articles := []types.Content{
		{
			Title:      "Welcome to Inkwell",
			Slug:       "welcome-to-inkwell",
			Body:       "This is the first article in your new CMS. Edit or delete it, then start writing.",
			Excerpt:    "This is the first article in your new CMS.",
			Status:     types.StatusPublished,
			CategoryID: &news.ID,
			Tags:       []string{"welcome", "cms"},
			AuthorID:   admin.ID,
		},
		{
			Title:      "Getting Started",
			Slug:       "getting-started",
			Body:       "Create categories, upload media and publish content from the admin panel.",
			Excerpt:    "Create categories, upload media and publish content.",
			Status:     types.StatusPublished,
			CategoryID: &tutorials.ID,
			Tags:       []string{"tutorial"},
			AuthorID:   admin.ID,
		},
	}
	for _, article := range articles {
		if _, err := contents.Create(ctx, article); err != nil {
			return fmt.Errorf("seed content: %w", err)
		}
	}
	return nil
}
