// Package assetdex embeds the assetdex asset catalog in a Go program,
// backed by Redis (RedisJSON + RediSearch) or a local SQLite file.
//
// Queries use the same text form as the HTTP API: URL-encoded
// $filter/$orderby/$top/$skip/$search options, where $filter is a CEL
// expression over asset fields.
//
//	client, _ := assetdex.New(ctx,
//	    assetdex.WithRedis("localhost:6379", ""),
//	    assetdex.WithBaseURL("https://cdn.example.com"),
//	)
//	defer client.Close()
//
//	assets := client.Assets(appID)
//	_, _, _ = assets.Upsert(ctx, id, assetdex.AssetInput{
//	    FileName: "logo.png", MimeType: "image/png", Tags: []string{"brand"},
//	})
//	page, _ := assets.Query(ctx, `$filter=isImage%20%26%26%20%22brand%22%20in%20tags&$top=10`)
package assetdex
