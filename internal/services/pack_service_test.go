package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rdavila/packstore/internal/database"
	"github.com/rdavila/packstore/internal/models"
	"github.com/rdavila/packstore/internal/repositories"
	"github.com/rdavila/packstore/pkg/errors"
	"github.com/rdavila/packstore/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// setupTestDB opens a private in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// newTestService wires a PackService over the test database with an
// injectable random source.
func newTestService(db *gorm.DB, randFloat func() float64, legendRewards bool) *PackService {
	selector := NewRewardSelector()
	if randFloat != nil {
		selector = NewRewardSelectorWithSource(randFloat)
	}
	return NewPackService(
		db,
		repositories.NewPackRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewOwnershipRepository(db),
		repositories.NewTransactionRepository(db),
		selector,
		legendRewards,
	)
}

func createUser(t *testing.T, db *gorm.DB, coins int64) *models.User {
	t.Helper()
	user := &models.User{
		Username:     fmt.Sprintf("user_%s_%d", strings.ReplaceAll(t.Name(), "/", "_"), coins),
		Email:        fmt.Sprintf("%d_%s@test.local", coins, strings.ReplaceAll(t.Name(), "/", "_")),
		PasswordHash: "x",
		Coins:        coins,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createItem(t *testing.T, db *gorm.DB, name string) *models.Item {
	t.Helper()
	item := &models.Item{ItemName: name, Category: models.ItemCategoryWeapon}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	return item
}

func createLegend(t *testing.T, db *gorm.DB, name string) *models.Legend {
	t.Helper()
	legend := &models.Legend{Name: name, Role: models.LegendRoleRecon}
	if err := db.Create(legend).Error; err != nil {
		t.Fatalf("failed to create legend: %v", err)
	}
	return legend
}

func createPack(t *testing.T, db *gorm.DB, price int64, rewards []models.PackReward) *models.Pack {
	t.Helper()
	pack := &models.Pack{PackName: "Test Pack", Price: price, Description: "test", Rewards: rewards}
	if err := db.Create(pack).Error; err != nil {
		t.Fatalf("failed to create pack: %v", err)
	}
	return pack
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}

func balanceOf(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	return user.Coins
}

func TestBuyPack_Success(t *testing.T) {
	db := setupTestDB(t)
	item := createItem(t, db, "Wingman")
	pack := createPack(t, db, 100, []models.PackReward{{ItemID: &item.ID, DropRate: 1}})
	user := createUser(t, db, 500)

	svc := newTestService(db, nil, true)

	receipt, err := svc.BuyPack(user.ID, pack.ID)
	if err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}

	if receipt.Balance != 400 {
		t.Errorf("receipt balance = %d, want 400", receipt.Balance)
	}
	if receipt.Reference == "" {
		t.Error("receipt reference is empty")
	}
	if got := balanceOf(t, db, user.ID); got != 400 {
		t.Errorf("balance = %d, want 400", got)
	}
	if got := countRows(t, db, &models.UserPack{}, "user_id = ? AND pack_id = ?", user.ID, pack.ID); got != 1 {
		t.Errorf("user_packs rows = %d, want 1", got)
	}
	if got := countRows(t, db, &models.Transaction{}, "user_id = ? AND action = ?", user.ID, models.ActionBuyPack); got != 1 {
		t.Errorf("BUY_PACK ledger rows = %d, want 1", got)
	}
}

func TestBuyPack_InsufficientFunds(t *testing.T) {
	db := setupTestDB(t)
	item := createItem(t, db, "Wingman")
	pack := createPack(t, db, 100, []models.PackReward{{ItemID: &item.ID, DropRate: 1}})
	user := createUser(t, db, 50)

	svc := newTestService(db, nil, true)

	_, err := svc.BuyPack(user.ID, pack.ID)
	if errors.Code(err) != errors.ErrCodeInsufficientFunds {
		t.Fatalf("error code = %s, want %s", errors.Code(err), errors.ErrCodeInsufficientFunds)
	}

	// Failed purchase leaves everything untouched.
	if got := balanceOf(t, db, user.ID); got != 50 {
		t.Errorf("balance = %d, want 50", got)
	}
	if got := countRows(t, db, &models.UserPack{}, ""); got != 0 {
		t.Errorf("user_packs rows = %d, want 0", got)
	}
	if got := countRows(t, db, &models.Transaction{}, ""); got != 0 {
		t.Errorf("ledger rows = %d, want 0", got)
	}
}

func TestBuyPack_ExactBalance(t *testing.T) {
	db := setupTestDB(t)
	item := createItem(t, db, "Wingman")
	pack := createPack(t, db, 500, []models.PackReward{{ItemID: &item.ID, DropRate: 1}})
	user := createUser(t, db, 500)

	svc := newTestService(db, nil, true)

	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("first BuyPack() error = %v", err)
	}
	if got := balanceOf(t, db, user.ID); got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}

	_, err := svc.BuyPack(user.ID, pack.ID)
	if errors.Code(err) != errors.ErrCodeInsufficientFunds {
		t.Fatalf("second buy error code = %s, want %s", errors.Code(err), errors.ErrCodeInsufficientFunds)
	}
	if got := balanceOf(t, db, user.ID); got != 0 {
		t.Errorf("balance after failed buy = %d, want 0", got)
	}
}

func TestBuyPack_PackNotFound(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, 500)

	svc := newTestService(db, nil, true)

	_, err := svc.BuyPack(user.ID, 9999)
	if errors.Code(err) != errors.ErrCodeNotFound {
		t.Errorf("error code = %s, want %s", errors.Code(err), errors.ErrCodeNotFound)
	}
}

func TestBuyPack_UserNotFound(t *testing.T) {
	db := setupTestDB(t)
	item := createItem(t, db, "Wingman")
	pack := createPack(t, db, 100, []models.PackReward{{ItemID: &item.ID, DropRate: 1}})

	svc := newTestService(db, nil, true)

	_, err := svc.BuyPack(9999, pack.ID)
	if errors.Code(err) != errors.ErrCodeNotFound {
		t.Errorf("error code = %s, want %s", errors.Code(err), errors.ErrCodeNotFound)
	}
}

func TestOpenPack_Success(t *testing.T) {
	db := setupTestDB(t)
	item := createItem(t, db, "Wingman")
	pack := createPack(t, db, 100, []models.PackReward{{ItemID: &item.ID, DropRate: 1}})
	user := createUser(t, db, 200)

	svc := newTestService(db, nil, true)

	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}
	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}

	result, err := svc.OpenPack(user.ID, pack.ID)
	if err != nil {
		t.Fatalf("OpenPack() error = %v", err)
	}

	if result.Reward.ItemID == nil || *result.Reward.ItemID != item.ID {
		t.Errorf("reward item = %v, want %d", result.Reward.ItemID, item.ID)
	}
	if result.Reward.ItemName != "Wingman" {
		t.Errorf("reward item name = %q, want Wingman", result.Reward.ItemName)
	}
	if result.Reward.ItemImage != "wingman.png" {
		t.Errorf("reward item image = %q, want wingman.png", result.Reward.ItemImage)
	}

	// Exactly one of the two copies consumed, one item granted, one
	// OPEN_PACK ledger row appended.
	if got := countRows(t, db, &models.UserPack{}, "user_id = ?", user.ID); got != 1 {
		t.Errorf("remaining pack copies = %d, want 1", got)
	}
	if got := countRows(t, db, &models.UserItem{}, "user_id = ? AND item_id = ?", user.ID, item.ID); got != 1 {
		t.Errorf("user_items rows = %d, want 1", got)
	}
	if got := countRows(t, db, &models.Transaction{}, "user_id = ? AND action = ?", user.ID, models.ActionOpenPack); got != 1 {
		t.Errorf("OPEN_PACK ledger rows = %d, want 1", got)
	}
}

func TestOpenPack_NotOwned(t *testing.T) {
	db := setupTestDB(t)
	item := createItem(t, db, "Wingman")
	pack := createPack(t, db, 100, []models.PackReward{{ItemID: &item.ID, DropRate: 1}})
	user := createUser(t, db, 500)

	svc := newTestService(db, nil, true)

	_, err := svc.OpenPack(user.ID, pack.ID)
	if errors.Code(err) != errors.ErrCodeNotOwned {
		t.Fatalf("error code = %s, want %s", errors.Code(err), errors.ErrCodeNotOwned)
	}

	if got := countRows(t, db, &models.UserItem{}, ""); got != 0 {
		t.Errorf("user_items rows = %d, want 0", got)
	}
	if got := countRows(t, db, &models.Transaction{}, ""); got != 0 {
		t.Errorf("ledger rows = %d, want 0", got)
	}
}

func TestOpenPack_EmptyPool(t *testing.T) {
	db := setupTestDB(t)
	pack := &models.Pack{PackName: "Hollow Pack", Price: 100, Description: "no rewards"}
	if err := db.Create(pack).Error; err != nil {
		t.Fatalf("failed to create pack: %v", err)
	}
	user := createUser(t, db, 500)

	svc := newTestService(db, nil, true)

	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}

	_, err := svc.OpenPack(user.ID, pack.ID)
	if errors.Code(err) != errors.ErrCodeEmptyPool {
		t.Fatalf("error code = %s, want %s", errors.Code(err), errors.ErrCodeEmptyPool)
	}

	// The owned copy survives the failed open.
	if got := countRows(t, db, &models.UserPack{}, "user_id = ?", user.ID); got != 1 {
		t.Errorf("pack copies = %d, want 1", got)
	}
}

func TestOpenPack_ExhaustedPoolRollsBack(t *testing.T) {
	db := setupTestDB(t)
	item := createItem(t, db, "Wingman")
	pack := createPack(t, db, 100, []models.PackReward{{ItemID: &item.ID, DropRate: 1}})
	user := createUser(t, db, 500)

	svc := newTestService(db, nil, true)

	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}

	// User already owns the only item the pack can yield.
	if err := db.Create(&models.UserItem{UserID: user.ID, ItemID: item.ID}).Error; err != nil {
		t.Fatalf("failed to grant item: %v", err)
	}

	_, err := svc.OpenPack(user.ID, pack.ID)
	if errors.Code(err) != errors.ErrCodeExhaustedPool {
		t.Fatalf("error code = %s, want %s", errors.Code(err), errors.ErrCodeExhaustedPool)
	}

	// Nothing consumed, nothing logged.
	if got := countRows(t, db, &models.UserPack{}, "user_id = ?", user.ID); got != 1 {
		t.Errorf("pack copies = %d, want 1", got)
	}
	if got := countRows(t, db, &models.Transaction{}, "action = ?", models.ActionOpenPack); got != 0 {
		t.Errorf("OPEN_PACK ledger rows = %d, want 0", got)
	}
}

func TestOpenPack_InvalidPool(t *testing.T) {
	db := setupTestDB(t)
	item := createItem(t, db, "Wingman")
	pack := createPack(t, db, 100, []models.PackReward{{ItemID: &item.ID, DropRate: 0}})
	user := createUser(t, db, 500)

	svc := newTestService(db, nil, true)

	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}

	_, err := svc.OpenPack(user.ID, pack.ID)
	if errors.Code(err) != errors.ErrCodeInvalidPool {
		t.Fatalf("error code = %s, want %s", errors.Code(err), errors.ErrCodeInvalidPool)
	}
	if got := countRows(t, db, &models.UserPack{}, "user_id = ?", user.ID); got != 1 {
		t.Errorf("pack copies = %d, want 1", got)
	}
}

func TestOpenPack_OwnedItemForcesRemainingReward(t *testing.T) {
	db := setupTestDB(t)
	common := createItem(t, db, "Flatline")
	rare := createItem(t, db, "Kraber")
	pack := createPack(t, db, 100, []models.PackReward{
		{ItemID: &common.ID, DropRate: 0.9},
		{ItemID: &rare.ID, DropRate: 0.1},
	})
	user := createUser(t, db, 500)

	// Random source pinned into the 90% interval; ownership filtering
	// must still force the 10% item.
	svc := newTestService(db, func() float64 { return 0.1 }, true)

	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}
	if err := db.Create(&models.UserItem{UserID: user.ID, ItemID: common.ID}).Error; err != nil {
		t.Fatalf("failed to grant item: %v", err)
	}

	result, err := svc.OpenPack(user.ID, pack.ID)
	if err != nil {
		t.Fatalf("OpenPack() error = %v", err)
	}
	if result.Reward.ItemID == nil || *result.Reward.ItemID != rare.ID {
		t.Errorf("reward item = %v, want %d", result.Reward.ItemID, rare.ID)
	}
}

func TestOpenPack_LegendReward(t *testing.T) {
	db := setupTestDB(t)
	legend := createLegend(t, db, "Wraith")
	pack := createPack(t, db, 100, []models.PackReward{{LegendID: &legend.ID, DropRate: 1}})
	user := createUser(t, db, 500)

	svc := newTestService(db, nil, true)

	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}

	result, err := svc.OpenPack(user.ID, pack.ID)
	if err != nil {
		t.Fatalf("OpenPack() error = %v", err)
	}
	if result.Reward.LegendID == nil || *result.Reward.LegendID != legend.ID {
		t.Errorf("reward legend = %v, want %d", result.Reward.LegendID, legend.ID)
	}
	if result.Reward.LegendName != "Wraith" {
		t.Errorf("reward legend name = %q, want Wraith", result.Reward.LegendName)
	}
	if got := countRows(t, db, &models.UserLegend{}, "user_id = ? AND legend_id = ?", user.ID, legend.ID); got != 1 {
		t.Errorf("user_legends rows = %d, want 1", got)
	}
}

func TestOpenPack_LegendRewardsDisabled(t *testing.T) {
	db := setupTestDB(t)
	legend := createLegend(t, db, "Wraith")
	pack := createPack(t, db, 100, []models.PackReward{{LegendID: &legend.ID, DropRate: 1}})
	user := createUser(t, db, 500)

	svc := newTestService(db, nil, false)

	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}

	_, err := svc.OpenPack(user.ID, pack.ID)
	if errors.Code(err) != errors.ErrCodeEmptyPool {
		t.Fatalf("error code = %s, want %s", errors.Code(err), errors.ErrCodeEmptyPool)
	}
	if got := countRows(t, db, &models.UserLegend{}, ""); got != 0 {
		t.Errorf("user_legends rows = %d, want 0", got)
	}
}

func TestOpenPack_ConsumesOldestCopyFirst(t *testing.T) {
	db := setupTestDB(t)
	item := createItem(t, db, "Wingman")
	pack := createPack(t, db, 100, []models.PackReward{{ItemID: &item.ID, DropRate: 1}})
	user := createUser(t, db, 500)

	svc := newTestService(db, nil, true)

	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}
	var first models.UserPack
	if err := db.Where("user_id = ?", user.ID).Order("id").First(&first).Error; err != nil {
		t.Fatalf("failed to load first copy: %v", err)
	}
	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}

	if _, err := svc.OpenPack(user.ID, pack.ID); err != nil {
		t.Fatalf("OpenPack() error = %v", err)
	}

	var remaining []models.UserPack
	if err := db.Where("user_id = ?", user.ID).Find(&remaining).Error; err != nil {
		t.Fatalf("failed to load remaining copies: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("remaining copies = %d, want 1", len(remaining))
	}
	if remaining[0].ID == first.ID {
		t.Errorf("oldest copy %d survived, want it consumed", first.ID)
	}
}

func TestOpenPack_GrantIsIdempotentUnderRace(t *testing.T) {
	db := setupTestDB(t)
	item := createItem(t, db, "Wingman")
	legend := createLegend(t, db, "Wraith")
	pack := createPack(t, db, 100, []models.PackReward{
		{ItemID: &item.ID, DropRate: 0.5},
		{LegendID: &legend.ID, DropRate: 0.5},
	})
	user := createUser(t, db, 500)

	svc := newTestService(db, func() float64 { return 0.1 }, true)

	if _, err := svc.BuyPack(user.ID, pack.ID); err != nil {
		t.Fatalf("BuyPack() error = %v", err)
	}

	// The user already holds both possible rewards. The owned item is
	// filtered, the legend wins the draw, and its grant must be a no-op
	// rather than a duplicate row.
	if err := db.Create(&models.UserItem{UserID: user.ID, ItemID: item.ID}).Error; err != nil {
		t.Fatalf("failed to grant item: %v", err)
	}
	if err := db.Create(&models.UserLegend{UserID: user.ID, LegendID: legend.ID}).Error; err != nil {
		t.Fatalf("failed to grant legend: %v", err)
	}

	if _, err := svc.OpenPack(user.ID, pack.ID); err != nil {
		t.Fatalf("OpenPack() error = %v", err)
	}

	if got := countRows(t, db, &models.UserItem{}, "user_id = ?", user.ID); got != 1 {
		t.Errorf("user_items rows = %d, want 1", got)
	}
	if got := countRows(t, db, &models.UserLegend{}, "user_id = ?", user.ID); got != 1 {
		t.Errorf("user_legends rows = %d, want 1", got)
	}
}
