// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/danielhkuo/foodgram/models"
)

// ListSubscriptions returns one page of the authors userID follows, each
// with up to recipesLimit of their newest recipes (all when negative) and
// their total recipe count.
func (s *Store) ListSubscriptions(ctx context.Context, userID int64, limit, offset, recipesLimit int) ([]models.Subscription, int, error) {
	var total int
	err := s.get(ctx, &total, s.sb.Select("COUNT(*)").From("subscription").Where(sq.Eq{"user_id": userID}))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	authors := []models.UserProfile{}
	err = s.selectAll(ctx, &authors, s.sb.Select("u.id", "u.email", "u.username", "u.first_name", "u.last_name").
		From("subscription sub").
		Join("app_user u ON u.id = sub.author_id").
		Where(sq.Eq{"sub.user_id": userID}).
		OrderBy("u.id").
		Limit(uint64(limit)).
		Offset(uint64(offset)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	for i := range authors {
		authors[i].IsSubscribed = true
	}

	subs, err := s.withRecipes(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// GetSubscription returns authorID as followed by viewerID, with the same
// recipe preview as ListSubscriptions
func (s *Store) GetSubscription(ctx context.Context, viewerID, authorID int64, recipesLimit int) (*models.Subscription, error) {
	profile, err := s.GetProfile(ctx, authorID, viewerID)
	if err != nil {
		return nil, err
	}
	subs, err := s.withRecipes(ctx, []models.UserProfile{*profile}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &subs[0], nil
}

func (s *Store) withRecipes(ctx context.Context, authors []models.UserProfile, recipesLimit int) ([]models.Subscription, error) {
	subs := make([]models.Subscription, len(authors))
	if len(authors) == 0 {
		return subs, nil
	}

	ids := make([]int64, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	var counts []struct {
		AuthorID int64 `db:"author_id"`
		N        int   `db:"n"`
	}
	err := s.selectAll(ctx, &counts, s.sb.Select("author_id", "COUNT(*) AS n").
		From("recipe").
		Where(sq.Eq{"author_id": ids}).
		GroupBy("author_id"))
	if err != nil {
		return nil, fmt.Errorf("failed to count author recipes: %w", err)
	}
	recipeCounts := make(map[int64]int, len(counts))
	for _, c := range counts {
		recipeCounts[c.AuthorID] = c.N
	}

	for i, a := range authors {
		q := s.sb.Select("id", "name", "image", "cooking_time").
			From("recipe").
			Where(sq.Eq{"author_id": a.ID}).
			OrderBy("id DESC")
		if recipesLimit >= 0 {
			q = q.Limit(uint64(recipesLimit))
		}
		recipes := []models.RecipeShort{}
		if err := s.selectAll(ctx, &recipes, q); err != nil {
			return nil, fmt.Errorf("failed to list author recipes: %w", err)
		}
		for j := range recipes {
			recipes[j].Image = s.imageURL(recipes[j].Image)
		}

		subs[i] = models.Subscription{
			UserProfile:  a,
			Recipes:      recipes,
			RecipesCount: recipeCounts[a.ID],
		}
	}
	return subs, nil
}
