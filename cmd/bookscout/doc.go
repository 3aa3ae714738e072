// Command bookscout manages a personal book-recommendation dataset: it
// discovers candidates via web search, tracks them in a file-backed library,
// scrapes metadata and reviews at a polite pace, and renders the final
// recommendations report.
package main
