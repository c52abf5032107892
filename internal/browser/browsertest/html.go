package browsertest

import (
	"fmt"
	"html"
	"strings"
)

// Card describes one product card of the test shop's markup.
type Card struct {
	Title       string
	Description string
	Price       string
	Stars       int
	Reviews     string
}

func (c Card) HTML() string {
	stars := strings.Repeat(`<span class="ws-icon ws-icon-star"></span>`, c.Stars)
	return fmt.Sprintf(`
<div class="col-md-4 col-xl-4 col-lg-4">
	<div class="card thumbnail">
		<div class="product-wrapper card-body">
			<img class="img-fluid card-img-top image img-responsive" alt="item" src="/images/test-sites/e-commerce/items/cart2.png">
			<div class="caption card-body">
				<h4 class="price float-end card-title pull-right">%s</h4>
				<h4>
					<a href="/test-sites/e-commerce/more/product/1" class="title" title="%s">%s</a>
				</h4>
				<p class="description card-text">%s</p>
			</div>
			<div class="ratings">
				<p class="review-count float-end">%s</p>
				<p data-rating="%d">%s</p>
			</div>
		</div>
	</div>
</div>`,
		html.EscapeString(c.Price),
		html.EscapeString(c.Title),
		html.EscapeString(c.Title),
		html.EscapeString(c.Description),
		html.EscapeString(c.Reviews),
		c.Stars,
		stars,
	)
}

// ListingPage wraps cards in a listing page with a cookie banner and a
// load more button.
func ListingPage(cards ...Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.HTML())
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
	<body>
		<div id="cookieBanner"><a class="acceptCookies" href="#">Accept &amp; Continue</a></div>
		<div class="row ecomerce-items ecomerce-items-more">%s</div>
		<a class="btn btn-lg btn-block btn-primary ecomerce-items-scroll-more">More</a>
	</body>
</html>`, b.String())
}
