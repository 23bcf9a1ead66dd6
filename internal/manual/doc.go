// Package manual resolves, fetches and indexes the documents of a versioned
// manual.
//
// A request names a manual and an optional version in one identifier token
// ("manual" or "manual@v1.2.0") followed by a document path. Resolve turns
// that into a Location. TOCLoader and ContentFetcher fetch the table of
// contents and the markdown body for a Location; VersionListLoader lists the
// published versions; Flatten and PageList.Locate derive the ordered page
// list used for previous/next navigation.
//
// Everything here is stateless with respect to navigation. The only state
// the loaders keep is the optional fetch cache.
package manual
