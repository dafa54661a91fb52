package bridge

// AdBlockPatterns lists ad, analytics and consent hosts. Blocking them keeps
// third-party scripts from shifting the translator layout or stalling load.
var AdBlockPatterns = []string{
	// Ad serving
	"*doubleclick.net/*",
	"*googlesyndication.com/*",
	"*googleadservices.com/*",
	"*googletagservices.com/*",
	"*adservice.google.com/*",
	"*amazon-adsystem.com/*",
	"*adnxs.com/*",
	"*pubmatic.com/*",
	"*rubiconproject.com/*",
	"*criteo.com/*",
	"*criteo.net/*",
	"*taboola.com/*",
	"*outbrain.com/*",
	"*media.net/*",
	"*propellerads.com/*",
	"*popads.net/*",

	// Analytics
	"*google-analytics.com/*",
	"*googletagmanager.com/*",
	"*connect.facebook.net/*",
	"*facebook.com/tr/*",
	"*hotjar.com/*",
	"*clarity.ms/*",
	"*segment.io/*",
	"*mixpanel.com/*",
	"*scorecardresearch.com/*",
	"*quantserve.com/*",

	// Consent overlays can cover the input box
	"*cookielaw.org/*",
	"*cookiebot.com/*",
	"*onetrust.com/*",
	"*fundingchoicesmessages.google.com/*",

	// Pixels
	"*/pixel?*",
	"*/collect?*",
}

// CombineBlockPatterns merges pattern lists, dropping duplicates and keeping
// first-seen order.
func CombineBlockPatterns(patterns ...[]string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, list := range patterns {
		for _, p := range list {
			if seen[p] {
				continue
			}
			seen[p] = true
			result = append(result, p)
		}
	}
	return result
}
