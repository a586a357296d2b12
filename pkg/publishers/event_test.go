package publishers

import (
	"time"

	"github.com/bitboxx-inc/bizinfo-harvester/internal/domain"
)

func testEvent() Event {
	doc := domain.NewDocument("https://example.com/bizinfo.json", []byte(`{"name":"Acme"}`), time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	return NewEvent(doc)
}
