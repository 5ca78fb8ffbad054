package auth

import (
	"fmt"
	"io"
	"strings"
)

// AppRegistrationURL is where Tumblr API applications are registered
const AppRegistrationURL = "https://www.tumblr.com/oauth/apps"

// ShowAppRegistrationGuide explains how to obtain a consumer key pair
func ShowAppRegistrationGuide(w io.Writer) {
	rule := strings.Repeat("=", 72)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "TUMBLR API CREDENTIALS")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "blogfinder signs every request with OAuth1 and needs four values:")
	fmt.Fprintln(w, "a consumer key and secret for your application, plus an access")
	fmt.Fprintln(w, "token and secret for your Tumblr account.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STEP 1: Register an application")
	fmt.Fprintf(w, "   - Open %s while logged in\n", AppRegistrationURL)
	fmt.Fprintln(w, "   - Click 'Register application' and fill in the form")
	fmt.Fprintf(w, "   - Use %s as the default callback URL\n", DefaultCallbackURL)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STEP 2: Copy the consumer pair")
	fmt.Fprintln(w, "   - 'OAuth Consumer Key' and 'Secret Key' appear under your app")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STEP 3: Authorize your account")
	fmt.Fprintln(w, "   - 'blogfinder auth login' prints an authorization link")
	fmt.Fprintln(w, "   - Approve access, then paste the address your browser lands on")
	fmt.Fprintln(w, "   - The page will fail to load; only its address is needed")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Alternatively set these variables, or put them in a .env file:")
	for _, name := range []string{EnvConsumerKey, EnvConsumerSecret, EnvOAuthToken, EnvOAuthSecret} {
		fmt.Fprintf(w, "   %s=...\n", name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Credentials are kept in the system keychain when one is available,")
	fmt.Fprintln(w, "otherwise in an encrypted file in your config directory.")
	fmt.Fprintln(w, rule)
}
