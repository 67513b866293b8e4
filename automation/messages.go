package automation

import (
	"bitbucket.org/mmdatafocus/books_automation/utils"
)

// User-facing message templates keyed by locale. Formatting only; nothing
// behavioral depends on these strings. Unknown locales fall back to en.
var messageCatalog = map[string]map[string]string{
	"en": {
		"expense.created":         `Recurring expense "{{.Category}}" generated for {{.Date}}`,
		"income.created":          `Recurring income "{{.Category}}" generated for {{.Date}}`,
		"restock.ordered":         `Draft purchase order {{.OrderNumber}} created: {{.Product}} is at {{.Stock}} (reorder point {{.ReorderPoint}})`,
		"project.budget_exceeded": `Project "{{.Project}}" spent {{.Spent}} of its {{.Budget}} budget and needs review`,
		"debt.reminder":           `Invoice {{.Invoice}} for {{.Customer}} is {{.Days}} days overdue ({{.Amount}} {{.Currency}})`,
		"inventory.low_stock":     `{{.Product}} is low on stock ({{.Stock}} left)`,
		"tick.completed":          `Automation run finished: {{.Entries}} actions, {{.Failed}} rules failed`,
	},
	"my": {
		"expense.created":         `ထပ်တလဲလဲ အသုံးစရိတ် "{{.Category}}" ကို {{.Date}} အတွက် ထုတ်ပြီးပါပြီ`,
		"income.created":          `ထပ်တလဲလဲ ဝင်ငွေ "{{.Category}}" ကို {{.Date}} အတွက် ထုတ်ပြီးပါပြီ`,
		"restock.ordered":         `အဝယ်အမှာစာမူကြမ်း {{.OrderNumber}} ဖန်တီးပြီးပါပြီ: {{.Product}} လက်ကျန် {{.Stock}} (ပြန်မှာရန်အမှတ် {{.ReorderPoint}})`,
		"project.budget_exceeded": `ပရောဂျက် "{{.Project}}" သည် ဘတ်ဂျက် {{.Budget}} အနက် {{.Spent}} သုံးစွဲပြီး ပြန်လည်သုံးသပ်ရန်လိုပါသည်`,
		"debt.reminder":           `{{.Customer}} ၏ ပြေစာ {{.Invoice}} သည် ရက် {{.Days}} ကျော်လွန်နေပါပြီ ({{.Amount}} {{.Currency}})`,
		"inventory.low_stock":     `{{.Product}} လက်ကျန်နည်းနေပါပြီ ({{.Stock}} သာကျန်)`,
		"tick.completed":          `အလိုအလျောက်လုပ်ဆောင်မှု ပြီးဆုံးပါပြီ: လုပ်ဆောင်ချက် {{.Entries}} ခု, မအောင်မြင်သော စည်းမျဉ်း {{.Failed}} ခု`,
	},
}

// Message renders a catalog template. On a missing key or template error it
// returns the key so a broken translation never breaks a rule.
func Message(locale string, key string, data map[string]interface{}) string {
	catalog, ok := messageCatalog[locale]
	if !ok {
		catalog = messageCatalog["en"]
	}
	tpl, ok := catalog[key]
	if !ok {
		tpl, ok = messageCatalog["en"][key]
		if !ok {
			return key
		}
	}
	msg, err := utils.ExecTemplate(tpl, data)
	if err != nil {
		return key
	}
	return msg
}
