// Command gen generates typed GORM query helpers for the persistence models.
package main

import (
	"gorm.io/gen"

	"pricetracker/internal/infra/persistence/model"
)

func main() {
	g := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
		Mode:    gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.ApplyBasic(model.UserModel{})

	g.Execute()
}
