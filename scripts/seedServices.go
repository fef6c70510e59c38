package scripts

import (
	"log"

	"smmpanel/models"

	"gorm.io/gorm"
)

// SeedServices loads the default catalog when the services table is
// empty. Prices are USD per 1000 units.
func SeedServices(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	services := []models.Service{
		{Name: "YouTube Views", Category: "youtube", Description: "High-retention views, gradual delivery", PricePer1000: 2.50, MinQuantity: 100},
		{Name: "YouTube Subscribers", Category: "youtube", Description: "Real-looking subscribers", PricePer1000: 18.00, MinQuantity: 100},
		{Name: "YouTube Likes", Category: "youtube", Description: "Video likes from aged accounts", PricePer1000: 4.00, MinQuantity: 100},
		{Name: "Instagram Followers", Category: "instagram", Description: "Profile followers, drip-fed", PricePer1000: 6.50, MinQuantity: 100},
		{Name: "Instagram Likes", Category: "instagram", Description: "Post likes", PricePer1000: 1.80, MinQuantity: 100},
		{Name: "TikTok Views", Category: "tiktok", Description: "Video views", PricePer1000: 0.90, MinQuantity: 500},
		{Name: "TikTok Followers", Category: "tiktok", Description: "Account followers", PricePer1000: 9.00, MinQuantity: 100},
		{Name: "Twitter/X Followers", Category: "twitter", Description: "Account followers", PricePer1000: 12.00, MinQuantity: 100},
	}

	if err := db.Create(&services).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d catalog services", len(services))
	return nil
}
