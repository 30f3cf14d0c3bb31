package bot

import (
	"fmt"
	"strings"

	"snackshop-line/config"
	"snackshop-line/models"
	"snackshop-line/services"
)

const (
	msgSystemBusy = "系統忙碌中，請稍後再試 🙏"
	msgNotSeenYet = "請先加入好友或傳送任意訊息後再綁定手機號碼"
	msgBindUsage  = "手機號碼格式不正確，請輸入「綁定 0912345678」"
	msgBindFirst  = "請先綁定手機號碼才能點餐，輸入「綁定 0912345678」"
	msgNoOrders   = "查無訂單記錄，直接輸入「編號 x數量」即可點餐！"
)

func welcomeText(r config.RestaurantConfig) string {
	return fmt.Sprintf("歡迎光臨 %s！🍜\n\n%s", r.Name, helpText())
}

func helpText() string {
	return strings.Join([]string{
		"📖 使用說明",
		"菜單 - 查看菜單與編號",
		"綁定 0912345678 - 綁定手機號碼",
		"查詢 - 查詢最近一筆訂單",
		"直接輸入「編號 x數量」即可點餐",
		"例如：1 x2, 3 x1 備註不要辣",
	}, "\n")
}

func menuText(r config.RestaurantConfig, items []models.MenuItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s 菜單\n", r.Name)

	// Bucket by category so each header appears once even when the id
	// order interleaves categories.
	var categories []string
	grouped := make(map[string][]models.MenuItem)
	for _, it := range items {
		if _, ok := grouped[it.Category]; !ok {
			categories = append(categories, it.Category)
		}
		grouped[it.Category] = append(grouped[it.Category], it)
	}
	for _, cat := range categories {
		fmt.Fprintf(&b, "\n【%s】\n", cat)
		for _, it := range grouped[cat] {
			fmt.Fprintf(&b, "%d. %s %s $%d\n", it.ID, it.Emoji, it.Name, it.Price)
		}
	}

	fmt.Fprintf(&b, "\n🕑 營業時間：%s\n☎️ %s", r.Hours, r.Phone)
	return b.String()
}

func bindOKText(phone string) string {
	return fmt.Sprintf("✅ 綁定成功！\n手機號碼：%s\n直接輸入「編號 x數量」即可點餐", services.FormatPhone(phone))
}

func statusText(o *models.Order) string {
	return strings.Join([]string{
		"🔍 最近一筆訂單",
		"----------------------",
		"訂單編號：" + o.OrderID,
		"餐點：" + o.Items,
		fmt.Sprintf("總金額：$%d", o.Total),
		"狀態：" + statusLabel(o.Status),
		"----------------------",
	}, "\n")
}

func statusLabel(status string) string {
	switch status {
	case models.OrderStatusPending:
		return "製作中"
	case models.OrderStatusReady:
		return "可取餐"
	case models.OrderStatusPickedUp:
		return "已取餐"
	default:
		return status
	}
}

// OrderCreatedText renders the confirmation sent after an order is stored;
// the web path pushes the same text to LIFF users.
func OrderCreatedText(o *models.Order) string {
	notes := o.Notes
	if notes == "" {
		notes = "無"
	}
	lines := []string{
		"🎉 您的訂單已成立！",
		"----------------------",
		"餐點：" + o.Items,
		fmt.Sprintf("總金額：$%d", o.Total),
	}
	if o.PickupTime != "" {
		lines = append(lines, "取餐時間："+o.PickupTime)
	}
	lines = append(lines,
		"訂單編號："+o.OrderID,
		"備註："+notes,
		"----------------------",
		"感謝您的訂購！",
	)
	return strings.Join(lines, "\n")
}
