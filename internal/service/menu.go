package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/school_canteen/internal/config"
	"github.com/Skotchmaster/school_canteen/internal/models"
	"github.com/Skotchmaster/school_canteen/internal/repo"
	"github.com/Skotchmaster/school_canteen/internal/transport"
	"github.com/Skotchmaster/school_canteen/pkg/db"
	"github.com/Skotchmaster/school_canteen/pkg/logging"
	"github.com/Skotchmaster/school_canteen/pkg/search"
)

// FoodIndex is the full-text index kept in sync with food items.
type FoodIndex interface {
	Put(ctx context.Context, doc search.FoodDocument) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, from, size int) (int64, []string, error)
}

type MenuService struct {
	Repo *repo.GormRepo
	// Index is optional; without it search runs against the database.
	Index           FoodIndex
	Clock           Clock
	DefaultQuantity int
	HorizonDays     int
}

func foodDocument(f *models.FoodItem) search.FoodDocument {
	return search.FoodDocument{
		ID:          f.ID.String(),
		Name:        f.Name,
		Description: f.Description,
		Category:    string(f.Category),
		IsActive:    f.IsActive,
	}
}

func (svc *MenuService) index(ctx context.Context, f *models.FoodItem) {
	if svc.Index == nil {
		return
	}
	if err := svc.Index.Put(ctx, foodDocument(f)); err != nil {
		logging.FromContext(ctx).Warn("food_index_put_failed", "svc", "menu", "food_item_id", f.ID, "error", err)
	}
}

func validateFood(name string, category models.FoodCategory, price int64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if !category.Valid() {
		return fmt.Errorf("%w: category must be food or beverage", ErrValidation)
	}
	if price < 0 {
		return fmt.Errorf("%w: base_price must be >= 0", ErrValidation)
	}
	return nil
}

func (svc *MenuService) CreateFood(ctx context.Context, req transport.CreateFoodRequest) (*models.FoodItem, error) {
	if err := validateFood(req.Name, req.Category, req.BasePrice); err != nil {
		return nil, err
	}

	item := &models.FoodItem{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		BasePrice:   req.BasePrice,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if err := svc.Repo.CreateFoodItem(ctx, item); err != nil {
		return nil, persistenceErr("create food item", err)
	}
	svc.index(ctx, item)
	return item, nil
}

func (svc *MenuService) PatchFood(ctx context.Context, id uuid.UUID, req transport.PatchFoodRequest) (*models.FoodItem, error) {
	item, err := svc.Repo.GetFoodItem(ctx, id)
	if err != nil {
		return nil, storeErr("get food item", err)
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.BasePrice != nil {
		item.BasePrice = *req.BasePrice
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if err := validateFood(item.Name, item.Category, item.BasePrice); err != nil {
		return nil, err
	}

	if err := svc.Repo.SaveFoodItem(ctx, item); err != nil {
		return nil, persistenceErr("save food item", err)
	}
	svc.index(ctx, item)
	return item, nil
}

func (svc *MenuService) ListFoods(ctx context.Context, activeOnly bool) ([]models.FoodItem, error) {
	items, err := svc.Repo.ListFoodItems(ctx, activeOnly)
	if err != nil {
		return nil, persistenceErr("list food items", err)
	}
	return items, nil
}

// DeactivateFood hides a food item from new menus; existing orders keep referencing it.
func (svc *MenuService) DeactivateFood(ctx context.Context, id uuid.UUID) error {
	if err := svc.Repo.SetFoodItemActive(ctx, id, false); err != nil {
		return storeErr("deactivate food item", err)
	}
	if svc.Index != nil {
		if err := svc.Index.Remove(ctx, id.String()); err != nil {
			logging.FromContext(ctx).Warn("food_index_remove_failed", "svc", "menu", "food_item_id", id, "error", err)
		}
	}
	return nil
}

// SearchFoods queries the index when one is configured and falls back to the
// database if the index is missing or fails.
func (svc *MenuService) SearchFoods(ctx context.Context, q string, offset, limit int) (int64, []models.FoodItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}

	if svc.Index != nil {
		total, ids, err := svc.Index.Search(ctx, q, offset, limit)
		if err == nil {
			uids := make([]uuid.UUID, 0, len(ids))
			for _, s := range ids {
				if id, perr := uuid.Parse(s); perr == nil {
					uids = append(uids, id)
				}
			}
			items, err := svc.Repo.GetFoodItemsByIDs(ctx, uids)
			if err != nil {
				return 0, nil, persistenceErr("load food items", err)
			}
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("food_index_search_failed", "svc", "menu", "error", err)
	}

	total, items, err := svc.Repo.SearchFoodItems(ctx, q, offset, limit)
	if err != nil {
		return 0, nil, persistenceErr("search food items", err)
	}
	return total, items, nil
}

// SeedFoods creates the given food items, skipping names that already exist.
func (svc *MenuService) SeedFoods(ctx context.Context, reqs []transport.CreateFoodRequest) (int, error) {
	existing, err := svc.Repo.ListFoodItems(ctx, false)
	if err != nil {
		return 0, persistenceErr("list food items", err)
	}
	names := make(map[string]bool, len(existing))
	for _, f := range existing {
		names[strings.ToLower(f.Name)] = true
	}

	created := 0
	for _, req := range reqs {
		key := strings.ToLower(strings.TrimSpace(req.Name))
		if names[key] {
			continue
		}
		if _, err := svc.CreateFood(ctx, req); err != nil {
			return created, fmt.Errorf("seed %q: %w", req.Name, err)
		}
		names[key] = true
		created++
	}
	return created, nil
}

// ReindexFoods pushes every food item into the search index.
func (svc *MenuService) ReindexFoods(ctx context.Context) (int, error) {
	if svc.Index == nil {
		return 0, fmt.Errorf("%w: search index is not configured", ErrValidation)
	}
	items, err := svc.Repo.ListFoodItems(ctx, false)
	if err != nil {
		return 0, persistenceErr("list food items", err)
	}
	for i := range items {
		if err := svc.Index.Put(ctx, foodDocument(&items[i])); err != nil {
			return i, fmt.Errorf("index %s: %w", items[i].ID, err)
		}
	}
	return len(items), nil
}

func (svc *MenuService) CreateDailyMenu(ctx context.Context, req transport.CreateMenuRequest) (*models.DailyMenu, error) {
	if _, err := parseDate(req.MenuDate); err != nil {
		return nil, err
	}
	if req.FoodItemID == uuid.Nil {
		return nil, fmt.Errorf("%w: food_item_id required", ErrValidation)
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if req.MaxQuantity != nil && *req.MaxQuantity < 0 {
		return nil, fmt.Errorf("%w: max_quantity must be >= 0", ErrValidation)
	}

	food, err := svc.Repo.GetFoodItem(ctx, req.FoodItemID)
	if err != nil {
		return nil, storeErr("get food item", err)
	}
	if !food.IsActive {
		return nil, fmt.Errorf("%w: food item %s is inactive", ErrValidation, food.ID)
	}

	menu := &models.DailyMenu{
		MenuDate:    req.MenuDate,
		FoodItemID:  food.ID,
		Price:       food.BasePrice,
		IsAvailable: true,
	}
	if req.Price != nil {
		menu.Price = *req.Price
	}
	if req.MaxQuantity != nil {
		limit, remaining := *req.MaxQuantity, *req.MaxQuantity
		menu.MaxQuantity, menu.RemainingQuantity = &limit, &remaining
	}

	if err := svc.Repo.CreateDailyMenu(ctx, menu); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s is already on the menu for %s", ErrConflict, food.Name, req.MenuDate)
		}
		return nil, persistenceErr("create daily menu", err)
	}
	menu.FoodItem = food
	return menu, nil
}

// PatchDailyMenu edits a menu entry while keeping remaining_quantity within max_quantity.
// Lowering max_quantity clamps remaining_quantity; setting it on an untracked entry fills it.
// The clamp is computed in the UPDATE so orders placed meanwhile keep their decrement.
func (svc *MenuService) PatchDailyMenu(ctx context.Context, id uuid.UUID, req transport.PatchMenuRequest) (*models.DailyMenu, error) {
	menu, err := svc.Repo.GetDailyMenu(ctx, id)
	if err != nil {
		return nil, storeErr("get daily menu", err)
	}

	fields := map[string]any{}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		fields["price"] = *req.Price
	}
	if req.IsAvailable != nil {
		fields["is_available"] = *req.IsAvailable
	}

	limit := menu.MaxQuantity
	if req.MaxQuantity != nil {
		if *req.MaxQuantity < 0 {
			return nil, fmt.Errorf("%w: max_quantity must be >= 0", ErrValidation)
		}
		v := *req.MaxQuantity
		limit = &v
		fields["max_quantity"] = v
		fields["remaining_quantity"] = repo.RemainingWithinMax(v)
	}
	if req.RemainingQuantity != nil {
		v := *req.RemainingQuantity
		switch {
		case v < 0:
			return nil, fmt.Errorf("%w: remaining_quantity must be >= 0", ErrValidation)
		case limit == nil:
			return nil, fmt.Errorf("%w: remaining_quantity needs max_quantity", ErrValidation)
		case v > *limit:
			return nil, fmt.Errorf("%w: remaining_quantity must not exceed max_quantity", ErrValidation)
		}
		fields["remaining_quantity"] = v
	}

	if len(fields) > 0 {
		if err := svc.Repo.UpdateDailyMenu(ctx, id, fields); err != nil {
			return nil, storeErr("update daily menu", err)
		}
	}
	updated, err := svc.Repo.GetDailyMenu(ctx, id)
	if err != nil {
		return nil, storeErr("reload daily menu", err)
	}
	return updated, nil
}

// ListDailyMenus lists the entries for date; availableOnly drops entries a parent cannot order.
func (svc *MenuService) ListDailyMenus(ctx context.Context, date string, availableOnly bool) ([]models.DailyMenu, error) {
	if date == "" {
		date = dateOf(svc.Clock.Now().AddDate(0, 0, 1))
	}
	if _, err := parseDate(date); err != nil {
		return nil, err
	}
	menus, err := svc.Repo.ListDailyMenus(ctx, date, availableOnly)
	if err != nil {
		return nil, persistenceErr("list daily menus", err)
	}
	return menus, nil
}

// PopulateDailyMenus offers every active food item at its base price on each of
// the next days dates, starting tomorrow. Existing (date, food item) entries are kept.
// Zero days or quantity fall back to the configured defaults.
func (svc *MenuService) PopulateDailyMenus(ctx context.Context, days, quantity int) (int, error) {
	if days == 0 {
		days = svc.HorizonDays
		if days == 0 {
			days = config.DefaultMenuHorizonDays
		}
	}
	if quantity == 0 {
		quantity = svc.DefaultQuantity
		if quantity == 0 {
			quantity = config.DefaultMenuQuantity
		}
	}
	if days < 0 || quantity < 0 {
		return 0, fmt.Errorf("%w: days and quantity must be positive", ErrValidation)
	}

	foods, err := svc.Repo.ListFoodItems(ctx, true)
	if err != nil {
		return 0, persistenceErr("list food items", err)
	}
	if len(foods) == 0 {
		return 0, fmt.Errorf("%w: no active food items found", ErrValidation)
	}

	now := svc.Clock.Now()
	dates := make([]string, 0, days)
	for i := 1; i <= days; i++ {
		dates = append(dates, dateOf(now.AddDate(0, 0, i)))
	}

	var created int
	err = svc.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		existing, err := tx.ExistingMenuKeys(ctx, dates)
		if err != nil {
			return persistenceErr("load existing menus", err)
		}

		var menus []models.DailyMenu
		for _, date := range dates {
			for _, f := range foods {
				if existing[repo.MenuKey(date, f.ID)] {
					continue
				}
				limit, remaining := quantity, quantity
				menus = append(menus, models.DailyMenu{
					MenuDate:          date,
					FoodItemID:        f.ID,
					Price:             f.BasePrice,
					IsAvailable:       true,
					MaxQuantity:       &limit,
					RemainingQuantity: &remaining,
				})
			}
		}
		if err := tx.CreateDailyMenus(ctx, menus); err != nil {
			return persistenceErr("create daily menus", err)
		}
		created = len(menus)
		return nil
	})
	if err != nil {
		return 0, err
	}

	logging.FromContext(ctx).Info("daily_menus_populated", "svc", "menu", "days", days, "quantity", quantity, "created", created)
	return created, nil
}
