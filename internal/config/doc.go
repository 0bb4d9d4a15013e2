// Package config provides configuration management for linkedin-mcp.
//
// Configuration is loaded from a single directory. The default directory is
// ~/.config/linkedin-mcp, and commands accept --config-path to point
// elsewhere. The directory holds:
//   - config.yaml (optional; defaults apply when absent)
//   - credentials.json (the registered LinkedIn application, supplied by the user)
//   - token.json (written by `linkedin-mcp auth login`)
//
// Example config.yaml:
//
//	logLevel: info
//	linkedin:
//	  apiVersion: "202501"
//	  scopes: [openid, profile, email, w_member_social]
//	auth:
//	  callbackTimeout: 5m
//	  openBrowser: true
//	http:
//	  timeout: 30s
package config
