package memory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// Seed catálogo inicial del store en memoria: productos, directorio de usuarios y órdenes externas.
type Seed struct {
	Products []SeedProductRow `mapstructure:"products"`
	Users    []SeedUserRow    `mapstructure:"users"`
	Orders   []SeedOrderRow   `mapstructure:"orders"`
}

// SeedProductRow producto tal como viene en el archivo. Price es texto decimal ("9.99").
type SeedProductRow struct {
	ID            string `mapstructure:"id"`
	SKU           string `mapstructure:"sku"`
	Name          string `mapstructure:"name"`
	Price         string `mapstructure:"price"`
	StockQuantity int    `mapstructure:"stock_quantity"`
}

// SeedUserRow usuario del directorio.
type SeedUserRow struct {
	ID    string `mapstructure:"id"`
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
	Role  string `mapstructure:"role"`
}

// SeedOrderRow orden externa; Status vacío = processing.
type SeedOrderRow struct {
	ID     string `mapstructure:"id"`
	Status string `mapstructure:"status"`
}

// LoadSeedFile lee un archivo yaml, json o toml (según extensión) con Viper.
func LoadSeedFile(path string) (*Seed, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("leer seed %s: %w", path, err)
	}
	var seed Seed
	if err := v.Unmarshal(&seed); err != nil {
		return nil, fmt.Errorf("decodificar seed %s: %w", path, err)
	}
	return &seed, nil
}

// ApplySeed valida el seed completo y luego lo carga. Si hay un error no se carga nada.
func (s *Store) ApplySeed(seed *Seed) error {
	products := make([]entity.Product, 0, len(seed.Products))
	for i, row := range seed.Products {
		if strings.TrimSpace(row.ID) == "" {
			return fmt.Errorf("producto #%d sin id", i+1)
		}
		if row.StockQuantity < 0 {
			return fmt.Errorf("producto %s: stock negativo", row.ID)
		}
		price := decimal.Zero
		if row.Price != "" {
			p, err := decimal.NewFromString(row.Price)
			if err != nil {
				return fmt.Errorf("producto %s: precio %q: %w", row.ID, row.Price, err)
			}
			price = p
		}
		products = append(products, entity.Product{
			ID: row.ID, SKU: row.SKU, Name: row.Name, Price: price, StockQuantity: row.StockQuantity,
		})
	}
	for i, u := range seed.Users {
		if strings.TrimSpace(u.ID) == "" || strings.TrimSpace(u.Role) == "" {
			return fmt.Errorf("usuario #%d sin id o rol", i+1)
		}
	}

	for _, p := range products {
		s.SeedProduct(p)
	}
	for _, u := range seed.Users {
		s.SeedUser(entity.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	for _, o := range seed.Orders {
		status := o.Status
		if status == "" {
			status = "processing"
		}
		s.SeedOrder(o.ID, status)
	}
	return nil
}
