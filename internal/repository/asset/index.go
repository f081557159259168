package asset

import (
	"github.com/kailas-cloud/assetdex/internal/db"
	"github.com/kailas-cloud/assetdex/internal/domain/query/field"
)

// fileNameText is a TEXT alias over $.fileName used by $search.
const fileNameText = "fileNameText"

// buildIndex defines the FT index over asset documents. Aliases equal the
// queryable field names so the translator can address fields directly.
func buildIndex() *db.IndexDefinition {
	exact := db.CaseSensitive()
	sortable := db.Sortable()
	return db.NewJSONIndex(indexName, keyPrefix).
		Tag("$.appId", "appId", exact).
		Tag("$.id", field.ID, exact, sortable).
		Tag("$.fileName", field.FileName, exact, sortable).
		Text("$.fileName", fileNameText).
		Tag("$.fileHash", field.FileHash, exact).
		Tag("$.mimeType", field.MimeType, exact, sortable).
		Tag("$.slug", field.Slug, exact, sortable).
		Tag("$.tags[*]", field.Tags, exact).
		Tag("$.isImage", field.IsImage).
		Tag("$.createdBy", field.CreatedBy, exact).
		Numeric("$.fileSize", field.FileSize, sortable).
		Numeric("$.fileVersion", field.FileVersion, sortable).
		Numeric("$.pixelWidth", field.PixelWidth, sortable).
		Numeric("$.pixelHeight", field.PixelHeight, sortable).
		Numeric("$.created", field.Created, sortable).
		Numeric("$.lastModified", field.LastModified, sortable).
		Numeric("$.version", field.Version, sortable).
		MustBuild()
}
