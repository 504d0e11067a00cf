// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package relations implements add and remove for the three user relations:
favorite recipes, shopping cart entries and author subscriptions.

	g := relations.NewGuard(conn)
	err := g.Add(ctx, relations.Favorite, userID, recipeID)

Each (user, object) pair is either absent or present. Add fails with
ErrAlreadyExists when present; Remove fails with ErrNotFound when absent.
Subscribing to yourself fails with ErrSelfSubscription before anything
else is looked at. A missing recipe or author fails with ErrTargetNotFound.

Every rejection is an *Error carrying the Kind, so messages read the same
across relations:

	favorite: already exists
	shopping cart entry: does not exist
	subscription: cannot subscribe to yourself

Concurrent duplicate adds are settled by the unique constraint on each
table; exactly one insert wins.
*/
package relations
