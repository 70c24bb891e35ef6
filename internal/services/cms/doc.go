// Package cms talks to the CMS content endpoints that consume finalized
// media: video posts under a category and reels. Media must be uploaded and
// processed first; these clients only accept the resulting URLs.
package cms
