package models

// Store configuration paths used by the gateway integration.
const (
	ConfigPathMerchantID = "payment/bitdrive/merchant_id"
	ConfigPathIPNSecret  = "payment/bitdrive/ipn_secret"
	ConfigPathDebug      = "payment/bitdrive/debug"
)

// StoreConfig maps to the `store_config` table (key-value, scoped per store).
type StoreConfig struct {
	ID      uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StoreID uint   `gorm:"column:store_id;index:idx_store_path,unique" json:"store_id"`
	Path    string `gorm:"column:path;size:255;index:idx_store_path,unique" json:"path"`
	Value   string `gorm:"column:value;type:text" json:"value"`
}

func (StoreConfig) TableName() string {
	return "store_config"
}
