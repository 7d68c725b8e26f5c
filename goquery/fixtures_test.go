package goquery_test

import (
	"fmt"
	"strings"
)

const (
	detailURL   = "https://shopee.sg/Dr.-Scholl-Medi-Qtto-Outside-Sheer-Stockings-Nature-Nude-%E2%98%85Direct-From-Japan%E2%98%85-i.672907573.19445913336"
	shopURL     = "https://shopee.sg/nobistar.sg"
	categoryURL = "https://shopee.sg/Ankle-socks-cat.11012819.11012954.11012956"
	searchURL   = "https://shopee.sg/search?keyword=direct+from+japan+demon+slayer+figure"
)

// page wraps body markup in a minimal document with optional head markup.
func page(head, body string) string {
	return "<!DOCTYPE html>\n<html>\n<head>" + head + "</head>\n<body>\n" + body + "\n</body>\n</html>"
}

func linkedData(jsonLD string) string {
	return `<script type="application/ld+json">` + jsonLD + `</script>`
}

// categoryContainer renders product i. Every tenth product has no reviews
// and shows no star rating.
func categoryContainer(i int) string {
	stars := `<div><img alt="rating-star-full" src="star.svg"><div>4.5</div></div>`
	if i%10 == 0 {
		stars = ""
	}
	return fmt.Sprintf(`<li class="shopee-search-item-result__item">
	<a href="/Ankle-Socks-%[1]d-i.1000.%[1]d">
		<img alt="Ankle Socks %[1]d" src="./Ankle_socks_files/sg-socks-%[1]d_tn.webp">
		<div class="line-clamp-2">Ankle Socks <span>%[1]d</span></div>
		<div class="flex items-baseline"><span>$</span><span>%[1]d.90</span></div>
		%[2]s
		<div>1.2k sold</div>
		<div><img alt="location-icon" src="pin.svg"><span>Singapore</span></div>
	</a>
</li>`, i, stars)
}

func categoryPage(n int, extra ...string) string {
	var b strings.Builder
	b.WriteString(`<ul class="row shopee-search-item-result__items">`)
	for i := 1; i <= n; i++ {
		b.WriteString(categoryContainer(i))
	}
	for _, e := range extra {
		b.WriteString(e)
	}
	b.WriteString(`</ul>`)
	return page("<title>Ankle socks</title>", b.String())
}

func searchContainer(i int) string {
	return fmt.Sprintf(`<li class="shopee-search-item-result__item">
	<a href="/Demon-Slayer-Figure-%[1]d-i.2000.%[1]d">
		<img src="./search_files/figure-%[1]d_tn" alt="">
		<div class="line-clamp-2">Demon Slayer Figure %[1]d</div>
		<div><span>$</span><span>25.00</span></div>
		<div><img alt="rating-star-full" src="star.svg"><div>5.0</div></div>
		<div>32 sold/month</div>
		<div><img alt="location-icon" src="pin.svg">Japan</div>
	</a>
</li>`, i)
}

func searchPage(n int, extra ...string) string {
	var b strings.Builder
	b.WriteString(`<ul class="shopee-search-item-result__items">`)
	for i := 1; i <= n; i++ {
		b.WriteString(searchContainer(i))
	}
	for _, e := range extra {
		b.WriteString(e)
	}
	b.WriteString(`</ul>`)
	return page("", b.String())
}

func shopContainer(i int) string {
	return fmt.Sprintf(`<div class="shop-search-result-view__item col-xs-2-4">
	<a href="/Dr.-Scholl-Medi-Qtto-%[1]d-i.672907573.%[1]d">
		<img class="inset-y-0 w-full" src="./nobistar_files/sg-qtto-%[1]d_tn">
		<div class="line-clamp-2">Dr. Scholl Medi Qtto</div>
		<div class="truncate flex items-baseline"><span>$</span><span>27.25</span></div>
	</a>
	<div><img alt="rating-star" src="star.svg"><span>4.0</span></div>
	<div>10 sold</div>
</div>`, i)
}

func shopPage(n int, description string) string {
	var b strings.Builder
	b.WriteString(`<div class="shop-page-shop-description"><span>` + description + `</span></div>`)
	b.WriteString(`<div class="shop-search-result-view"><div class="row">`)
	for i := 1; i <= n; i++ {
		b.WriteString(shopContainer(i))
	}
	b.WriteString(`</div></div>`)
	return page(`<link rel="canonical" href="`+shopURL+`">`, b.String())
}

const detailJSONLD = `{
	"@context": "http://schema.org",
	"@type": "Product",
	"name": "Dr. Scholl Medi Qtto Outside Sheer Stockings Nature Nude ★Direct From Japan★",
	"description": "Sheer compression stockings shipped direct from Japan.",
	"url": "` + detailURL + `",
	"productID": "19445913336",
	"image": "https://down-sg.img.susercontent.com/file/sg-11134207-7rbk0-lq8qz1",
	"offers": {
		"@type": "Offer",
		"price": "27.25",
		"priceCurrency": "SGD",
		"seller": {"@type": "Organization", "name": "nobistar.sg"}
	},
	"aggregateRating": {
		"@type": "AggregateRating",
		"ratingCount": "1",
		"ratingValue": "4.00"
	}
}`

const detailBody = `<div class="page-product">
	<div class="airUhU">
		<img class="raRnQV" src="./Dr_files/sg-11134207-7rbk0-lq8qz1_tn">
		<img class="raRnQV" src="./Dr_files/sg-11134207-7rbk5-m2x9aa_tn">
	</div>
	<div class="mnzVGI">10 Sold</div>
	<section class="flex items-center OaFP0p">
		<h2>Quantity</h2>
		<div><div>-</div><div>10 pieces available</div></div>
	</section>
	<div class="_GVeNA"><div class="tUagTH">15-Day Free Returns</div></div>
	<section class="flex KIoPj6 lkKD9l">
		<div class="O3NAB1"><span>Guaranteed to get by 20 - 23 Jan</span></div>
		<div class="O3NAB1 zRFiFo"><span>Free shipping</span></div>
		<div class="O3NAB1 onPwxQ">Get a $1.00 voucher if your order arrives late.</div>
	</section>
	<div class="page-product__shop"><a class="lG5Xxv" href="/nobistar.sg">View Shop</a></div>
	<div class="product-detail">
		<div class="Gf4Ro0">
			<div class="ybxj32"><h3 class="VJOnTD">Country of Origin</h3><div>Japan</div></div>
			<div class="ybxj32"><h3 class="VJOnTD">Stock</h3><div>10</div></div>
		</div>
	</div>
	<div class="j7HL5Q">
		<button class="sApkZm">M Size</button>
		<button class="sApkZm" aria-disabled="true">L Size</button>
	</div>
	<div class="shopee-product-comment-list">
		<div class="q2b7Oq">
			<a class="InK5kS">ahyan1989</a>
			<div>
				<svg class="shopee-svg-icon YBGCRA icon-rating-solid"></svg>
				<svg class="shopee-svg-icon YBGCRA icon-rating-solid"></svg>
				<svg class="shopee-svg-icon YBGCRA icon-rating-solid"></svg>
				<svg class="shopee-svg-icon YBGCRA icon-rating-solid"></svg>
				<svg class="shopee-svg-icon YBGCRA icon-rating"></svg>
			</div>
			<div class="j5ucs4"><div class="XYk98l">2024-01-15 14:32 | Variation: L Size</div></div>
		</div>
	</div>
</div>`

func detailPage() string {
	return page(linkedData(detailJSONLD), detailBody)
}
