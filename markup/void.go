package markup

// voidTags is the HTML void element set named in SPEC_FULL §4.2: these
// never take children or a closing `/tag` marker.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func isVoid(tag string) bool { return voidTags[tag] }
