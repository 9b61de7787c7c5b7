package app

import (
	"context"
	"strings"

	"taskbook/internal/domain"
)

// PageSize is the fixed number of items per listing page.
const PageSize = 20

var (
	// ErrEmptyBody indicates an item body that is empty after trimming.
	ErrEmptyBody = validation("empty_body", "item body must not be empty")
	// ErrItemNotFound indicates a reference to an absent item.
	ErrItemNotFound = notFound("item_not_found", "item does not exist")
	// ErrNotOwner indicates an actor touching an item it does not own.
	// The message deliberately matches what a not-found caller learns:
	// nothing about the item itself.
	ErrNotOwner = forbidden("forbidden", "not allowed")
)

// Page describes one page of a listing.
type Page struct {
	Items   []domain.Item
	Number  int
	Total   int
	HasPrev bool
	HasNext bool
}

// ItemService implements item CRUD with ownership enforcement. Both the
// web and API surfaces go through it, so the rules cannot drift apart.
type ItemService struct {
	items domain.ItemRepository
}

// NewItemService creates an ItemService backed by the given repository.
func NewItemService(items domain.ItemRepository) *ItemService {
	return &ItemService{items: items}
}

// List returns one page of actor's items under filter. Page numbers
// start at 1; out-of-range pages return an empty page, not an error.
func (s *ItemService) List(ctx context.Context, actorID int64, filter domain.ItemFilter, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.items.Count(ctx, actorID, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.items.List(ctx, actorID, filter, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, err
	}
	return &Page{
		Items:   items,
		Number:  page,
		Total:   total,
		HasPrev: page > 1,
		HasNext: page*PageSize < total,
	}, nil
}

// Counts returns the all/active/completed item counts for actor.
func (s *ItemService) Counts(ctx context.Context, actorID int64) (all, active, completed int, err error) {
	if all, err = s.items.Count(ctx, actorID, domain.FilterAll); err != nil {
		return
	}
	if active, err = s.items.Count(ctx, actorID, domain.FilterActive); err != nil {
		return
	}
	completed = all - active
	return
}

// Create stores a new item for actor. The body must be non-empty after
// trimming; it is stored as given.
func (s *ItemService) Create(ctx context.Context, actorID int64, body string) (*domain.Item, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}
	return s.items.Create(ctx, actorID, body)
}

// Get fetches one item, enforcing ownership.
func (s *ItemService) Get(ctx context.Context, actorID, itemID int64) (*domain.Item, error) {
	return s.owned(ctx, actorID, itemID)
}

// EditBody replaces an item's body, enforcing ownership and the same
// non-empty rule as Create.
func (s *ItemService) EditBody(ctx context.Context, actorID, itemID int64, body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrEmptyBody
	}
	if _, err := s.owned(ctx, actorID, itemID); err != nil {
		return err
	}
	return s.items.UpdateBody(ctx, itemID, body)
}

// Toggle flips an item's done flag and returns the new state. Two
// toggles restore the original state.
func (s *ItemService) Toggle(ctx context.Context, actorID, itemID int64) (bool, error) {
	item, err := s.owned(ctx, actorID, itemID)
	if err != nil {
		return false, err
	}
	if err := s.items.SetDone(ctx, itemID, !item.Done); err != nil {
		return false, err
	}
	return !item.Done, nil
}

// Delete permanently removes an item, enforcing ownership.
func (s *ItemService) Delete(ctx context.Context, actorID, itemID int64) error {
	if _, err := s.owned(ctx, actorID, itemID); err != nil {
		return err
	}
	return s.items.Delete(ctx, itemID)
}

// ClearCompleted deletes all of actor's done items and returns how many
// went. Zero is a valid answer.
func (s *ItemService) ClearCompleted(ctx context.Context, actorID int64) (int64, error) {
	return s.items.DeleteCompleted(ctx, actorID)
}

// owned fetches an item and verifies the actor owns it. Every item
// operation funnels through here.
func (s *ItemService) owned(ctx context.Context, actorID, itemID int64) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	return item, nil
}
