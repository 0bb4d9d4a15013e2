// Package mcpserver exposes the LinkedIn operations as Model Context Protocol
// tools over stdio.
//
// The server registers six tools:
//   - get_profile
//   - create_post
//   - create_article_post
//   - list_posts
//   - delete_post
//   - get_connection_count
//
// Tool arguments are validated here before the LinkedIn client is called:
// post text is 1 to 3000 characters, article URLs use http or https,
// visibility is PUBLIC, CONNECTIONS or LOGGED_IN, and list counts are clamped
// to 1..100.
//
// Results are JSON text. Read-only tools that could not reach any endpoint
// return a regular result with "success": false and an explanation, so the
// assistant can tell the user why the data is missing. Authentication and
// write failures are returned as tool errors.
package mcpserver
