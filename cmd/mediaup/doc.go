// Command mediaup uploads media files to the CMS, tracks their background
// processing, and creates video posts and reels from the finished results.
package main
