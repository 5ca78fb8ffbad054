// Package tumblr is a small client for the Tumblr v2 API endpoints the blog
// search needs: tagged post search and blog info. Requests are signed with
// OAuth1 via github.com/dghubble/oauth1.
//
//	client := tumblr.NewClient(tumblr.Credentials{...}, 30*time.Second, log)
//	page, err := client.SearchTag(ctx, tumblr.SearchQuery{Tag: "vintage", Limit: 20})
//	info, err := client.GetBlogInfo(ctx, "someblog")
//
// Errors are *errors.Error values typed by HTTP status.
package tumblr
