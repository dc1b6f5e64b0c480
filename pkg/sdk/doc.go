// Package docchat is an in-process Go client for searching and uploading
// documents held by a ZeroEntropy-compatible document service.
//
//	client, _ := docchat.New(os.Getenv("DOCSERVICE_API_KEY"))
//	cols, _ := client.Collections(ctx)
//	_, _ = client.AddDocument(ctx, "support-docs", "faq.md", docchat.Text(body))
//	answer, _ := client.Ask(ctx, "refund policy", "support-docs", "legal-docs")
//	fmt.Println(answer.Text)
//
// Ask queries every collection concurrently. A failing collection shows up in
// Answer.Errors and never hides the results of the others.
package docchat
