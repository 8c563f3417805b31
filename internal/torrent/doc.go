// Package torrent talks to the download client that seeds finished torrents.
//
// Only qBittorrent is supported. The client is used after a post-processing
// run to move torrents whose episodes were linked into the library over to
// long-term seed storage.
package torrent
