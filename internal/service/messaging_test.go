package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/utils"
)

func promoFixture(customerBot *fakeMessenger) *TemplateService {
	customers := &fakeCustomers{items: []models.Customer{
		{StoreID: storeID, Name: "Asha", Phone: "+919000000001", TelegramChatID: strPtr("chat-1")},
		{StoreID: storeID, Name: "Bala", Phone: "+919000000002"},
		{StoreID: storeID, Name: "Chitra", Phone: "+919000000003", TelegramChatID: strPtr("chat-3")},
		{StoreID: "store-2", Name: "Other", Phone: "+919000000004", TelegramChatID: strPtr("chat-4")},
	}}
	notify := NewNotificationService(customerBot, &fakeMessenger{}, customers)
	templates := &fakeTemplates{byStore: map[string]string{storeID: "Hi {{customer_name}}, {{shop_name}} has offers!"}}
	stores := newFakeStores(&models.Store{ID: storeID, Name: "Joe's"})
	return NewTemplateService(templates, stores, customers, notify, "+91")
}

func TestSendPromoCountsOutcomes(t *testing.T) {
	bot := &fakeMessenger{}
	svc := promoFixture(bot)

	res, err := svc.SendPromo(context.Background(), owner, PromoRequest{StoreID: storeID})
	require.NoError(t, err)
	assert.Equal(t, PromoResult{Sent: 2, Skipped: 1}, *res)
	require.Len(t, bot.sent, 2)
	assert.Equal(t, "Hi Asha, Joe's has offers!", bot.sent[0].Text)
}

func TestSendPromoSelectedPhonesAndFailures(t *testing.T) {
	bot := &fakeMessenger{err: errBotDown}
	svc := promoFixture(bot)

	res, err := svc.SendPromo(context.Background(), owner, PromoRequest{StoreID: storeID, Phones: []string{"9000000003"}})
	require.NoError(t, err)
	assert.Equal(t, PromoResult{Failed: 1}, *res)

	_, err = svc.SendPromo(context.Background(), owner, PromoRequest{StoreID: "store-2"})
	assert.ErrorIs(t, err, utils.ErrForbiddenStore)
}

func TestTemplateGetDefaultSaveAndPreview(t *testing.T) {
	templates := &fakeTemplates{}
	stores := newFakeStores(&models.Store{ID: storeID, Name: "Joe's"})
	svc := NewTemplateService(templates, stores, &fakeCustomers{}, nil, "+91")
	ctx := context.Background()

	view, err := svc.Get(ctx, owner, storeID)
	require.NoError(t, err)
	assert.True(t, view.IsDefault)
	assert.Equal(t, DefaultTemplate, view.TemplateText)
	assert.Len(t, view.Placeholders, 5)

	_, err = svc.Save(ctx, owner, storeID, "Hi {{customer_name}}, visit {{shop_name}}")
	require.NoError(t, err)

	preview, err := svc.Preview(ctx, owner, storeID, "")
	require.NoError(t, err)
	assert.Equal(t, "Hi John Doe, visit Joe's", preview)

	preview, err = svc.Preview(ctx, owner, storeID, "Call {{shop_phone}}")
	require.NoError(t, err)
	assert.Equal(t, "Call [Phone]", preview)

	_, err = svc.Save(ctx, owner, storeID, "   ")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestNotifyDeliveredSkipsWithoutChat(t *testing.T) {
	bot := &fakeMessenger{}
	customers := &fakeCustomers{items: []models.Customer{{StoreID: storeID, Phone: "A"}}}
	NewNotificationService(bot, nil, customers).NotifyDelivered(context.Background(),
		&models.Order{ID: "12345678-aaaa", StoreID: storeID, CustomerPhone: "A"})
	assert.Empty(t, bot.sent)
}

func TestDeliveredMessageUsesShortID(t *testing.T) {
	msg := DeliveredMessage(&models.Order{ID: "abcdef12-3456-7890"})
	assert.Equal(t, "✅ *Order Delivered!*\n\nYour order #abcdef12 has been successfully delivered.\n\nThank you for shopping with us! 🎉", msg)
}

func reportFixture(now time.Time) (*ReportService, *fakeMessenger, *fakeSummaries) {
	ownerBot := &fakeMessenger{}
	summaries := &fakeSummaries{}
	inv := sampleInventory()
	inv.items[0].SupplierName = "Kumar Traders"
	inv.items[0].SupplierWhatsApp = "+91 98765 43210"
	inv.items[0].ReorderQuantity = 20
	notify := NewNotificationService(&fakeMessenger{}, ownerBot, &fakeCustomers{})
	svc := NewReportService(sampleOrders(now), inv, summaries, notify, "₹", 7, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, ownerBot, summaries
}

func TestDailyReportPersistsAndSends(t *testing.T) {
	now := time.Date(2026, 5, 1, 21, 0, 0, 0, time.UTC)
	svc, bot, summaries := reportFixture(now)
	store := &models.Store{ID: storeID, Name: "Joe's", TelegramChatID: strPtr("owner-chat")}

	sum, err := svc.DailyReport(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.OrderCount)
	assert.Equal(t, 80.0, sum.Revenue)
	assert.Equal(t, []string{"Rice", "Dal"}, []string(sum.LowStockItems))
	require.Len(t, summaries.created, 1)

	require.Len(t, bot.sent, 1)
	assert.Equal(t, "owner-chat", bot.sent[0].ChatID)
	assert.Contains(t, bot.sent[0].Text, "Daily Report - 01 May 2026")
	assert.Contains(t, bot.sent[0].Text, "Revenue: ₹80.00")
}

func TestLowStockAlertLinksSupplier(t *testing.T) {
	svc, bot, _ := reportFixture(time.Now())
	store := &models.Store{ID: storeID, Name: "Joe's", TelegramChatID: strPtr("owner-chat")}

	n, err := svc.LowStockAlert(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, bot.sent, 2)

	require.NotNil(t, bot.sent[0].ReplyMarkup)
	url := bot.sent[0].ReplyMarkup.InlineKeyboard[0][0].URL
	assert.Contains(t, url, "https://wa.me/919876543210?text=")
	assert.Contains(t, url, "20+kg+of+Rice")
	assert.Nil(t, bot.sent[1].ReplyMarkup)
}

func TestReportsNeedOwnerChat(t *testing.T) {
	svc, bot, _ := reportFixture(time.Now())
	_, err := svc.LowStockAlert(context.Background(), &models.Store{ID: storeID})
	assert.ErrorIs(t, err, ErrNoChat)
	assert.Empty(t, bot.sent)
}

func TestCreditReminder(t *testing.T) {
	svc, bot, _ := reportFixture(time.Now())
	store := &models.Store{ID: storeID, TelegramChatID: strPtr("owner-chat")}

	sent, err := svc.CreditReminder(context.Background(), store)
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, bot.sent, 1)
	assert.Contains(t, bot.sent[0].Text, "Outstanding: ₹150.00 from 1 customers")
	assert.Contains(t, bot.sent[0].Text, "Overdue")
	assert.Contains(t, bot.sent[0].Text, "ago")

	empty := NewReportService(&fakeOrders{}, &fakeInventory{}, &fakeSummaries{}, nil, "₹", 7, nil)
	sent, err = empty.CreditReminder(context.Background(), store)
	require.NoError(t, err)
	assert.False(t, sent)
}
