package constant

// Hard-coded catalogs. These are product configuration, not user data,
// so they live in code rather than in the database.

const (
	// PricePerGeneration is charged for a single one-off generation, in cents.
	PricePerGeneration int64 = 200
	Currency                 = "eur"

	DefaultModelName = "google/nano-banana"
)

type CreditPack struct {
	Id      string
	Name    string
	Credits int
	Price   int64 // cents
	Popular bool
}

var CreditPacks = []CreditPack{
	{Id: "starter", Name: "Pack Starter", Credits: 5, Price: 1000},
	{Id: "standard", Name: "Pack Standard", Credits: 10, Price: 1500, Popular: true},
	{Id: "pro", Name: "Pack Pro", Credits: 25, Price: 3000},
	{Id: "premium", Name: "Pack Premium", Credits: 50, Price: 5000},
}

func FindCreditPack(id string) *CreditPack {
	for i := range CreditPacks {
		if CreditPacks[i].Id == id {
			return &CreditPacks[i]
		}
	}
	return nil
}

type PromoCode struct {
	Credits     int
	Description string
}

var PromoCodes = map[string]PromoCode{
	"ALEX10": {Credits: 10, Description: "Code promo spécial - 10 crédits offerts"},
}
