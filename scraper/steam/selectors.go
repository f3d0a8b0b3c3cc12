package steam

import "steam-promo-scraper/browser"

// Listing region and per-item locators. Items are only searched inside the
// sale browser so carousels elsewhere on the page are not picked up.
var (
	ListingLocator     = browser.CSS("div[class*='sale_item_browser']")
	ItemLocator        = browser.CSS("div[class*='sale_item_browser'] div[class*='ImpressionTrackedElement']")
	TitleLocator       = browser.CSS("img")
	PriceLocator       = browser.CSS("div[class*='StoreSalePriceWidgetContainer']")
	ReviewLocator      = browser.CSS("a[class*='ReviewScore'] div[aria-label]")
	DescriptionLocator = browser.CSS("div[class*='StoreSaleWidgetShortDesc']")
	TagLocator         = browser.CSS("a[href*='/tags/']")
	LinkLocator        = browser.CSS("a[href*='/app/']")
)

// ScrollToBottomScript forces lazy-loaded content to mount.
const ScrollToBottomScript = `window.scrollTo(0, document.body.scrollHeight);`
