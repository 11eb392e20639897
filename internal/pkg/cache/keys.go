package cache

import (
	"fmt"
	"strings"
)

// CatalogPrefix cobre todas as chaves do cardápio público.
const CatalogPrefix = "catalog:"

// ItemKey é a chave de um item individual.
func ItemKey(id string) string {
	return fmt.Sprintf("%sitem:%s", CatalogPrefix, id)
}

// ItemListKey é a chave de uma listagem filtrada do cardápio.
func ItemListKey(categoryID, search string) string {
	return fmt.Sprintf("%sitems:%s:%s", CatalogPrefix, categoryID, strings.ToLower(strings.TrimSpace(search)))
}
