package models

type MenuItem struct {
	ID       int64  `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Price    int64  `json:"price" bson:"price"`
	Category string `json:"category" bson:"category"` // "主食", "小吃", "湯品", "飲料"
	Emoji    string `json:"emoji" bson:"emoji"`
}

const (
	CategoryMain  = "主食"
	CategorySnack = "小吃"
	CategorySoup  = "湯品"
	CategoryDrink = "飲料"
)

// FallbackMenu is the built-in catalog, used to seed fresh stores and as the
// client-side fallback when the menu endpoint is unreachable.
var FallbackMenu = []MenuItem{
	{ID: 1, Name: "滷肉飯", Price: 35, Category: CategoryMain, Emoji: "🍜"},
	{ID: 2, Name: "雞肉飯", Price: 40, Category: CategoryMain, Emoji: "🍚"},
	{ID: 3, Name: "蚵仔煎", Price: 65, Category: CategorySnack, Emoji: "🦪"},
	{ID: 4, Name: "大腸麵線", Price: 50, Category: CategorySoup, Emoji: "🍲"},
	{ID: 5, Name: "珍珠奶茶", Price: 45, Category: CategoryDrink, Emoji: "🥤"},
	{ID: 6, Name: "鹽酥雞", Price: 60, Category: CategorySnack, Emoji: "🍗"},
	{ID: 7, Name: "甜不辣", Price: 40, Category: CategorySnack, Emoji: "🐟"},
	{ID: 8, Name: "蚵仔酥", Price: 70, Category: CategorySnack, Emoji: "🦪"},
	{ID: 9, Name: "肉圓", Price: 45, Category: CategorySnack, Emoji: "🥟"},
	{ID: 10, Name: "碗粿", Price: 35, Category: CategorySnack, Emoji: "🍮"},
}
