// Export internals for white box testing.

package strike

var ParseScore = parseScore
