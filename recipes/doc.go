// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package recipes validates and persists recipe compositions.

A composition is a recipe's tag set plus its ingredient lines (ingredient
id and amount). Compositions are always written whole: create writes the
full set, update clears the old set and writes the new one.

# Validation

	comp, err := recipes.NewValidator(catalog).Validate(ctx, draft)

Checks run in a fixed order and the first failure is returned:

 1. tags: empty, then duplicate ids
 2. ingredients: empty, then duplicate ids (amounts are not compared)
 3. amount: any amount not greater than zero, or infinite
 4. cooking_time: outside 1..MaxCookingTime, when supplied
 5. tags: ids that do not exist
 6. ingredients: ids that do not exist

Failures are *ValidationError values naming the field and, where there is
one, the offending id. The wrapped sentinel can be matched with errors.Is.

# Writing

Writer.Create, Writer.Update and Writer.Delete each run in one
transaction. A failure part way leaves no partial tag links or ingredient
lines behind. Update and Delete verify authorship inside the transaction
and return ErrRecipeNotFound or ErrAuthorMismatch.

Ingredient ids are resolved again inside the write transaction; an id
removed since validation yields ErrIngredientNotFound.

# Service

Service ties the pieces together for the HTTP layer:

	svc := recipes.NewService(validator, writer, store, images)
	recipe, err := svc.CreateRecipe(ctx, userID, input)

Every operation takes the acting user id explicitly.
*/
package recipes
