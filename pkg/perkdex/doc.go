// Package perkdex embeds the discount offer index in a Go program.
//
// Documents can be pushed one by one, read from a directory, or read from
// Redis string keys:
//
//	client, _ := perkdex.New(ctx, perkdex.WithDir("./offers"))
//	defer client.Close()
//
//	_, _ = client.Ingest(ctx, "hilton.txt", "Hilton Hotels\n20% off ...")
//	hits, _ := client.Query(ctx, "hotel", perkdex.SearchOptions{TopK: 5})
//	for _, h := range hits {
//	    fmt.Println(h.Name, h.Discount, h.Score)
//	}
package perkdex
