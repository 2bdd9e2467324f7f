package analyzer

// Keyword sets and domain tables behind the heuristic dimensions.
// These are empirical; tuning them shifts every downstream threshold,
// so treat changes as a scoring-version bump.

var techKeywords = []string{
	"algorithm", "implementation", "architecture", "performance",
	"open source", "api", "framework", "database", "docker",
	"kubernetes", "ai", "machine learning", "compiler", "rust",
	"golang", "python", "javascript", "typescript", "react",
	"vue", "angular", "node.js", "postgresql", "mongodb",
	"redis", "elasticsearch", "tensorflow", "pytorch",
	"microservices", "devops", "ci/cd", "testing", "security",
}

var advancedKeywords = []string{
	"distributed systems", "concurrency", "parallel processing",
	"optimization", "scalability", "fault tolerance", "consensus",
	"cryptography", "blockchain", "neural networks", "deep learning",
	"compiler design", "operating systems", "memory management",
	"garbage collection", "jit compilation", "virtualization",
}

var techDomains = []string{"github.com", "arxiv.org", "papers.withcode.com"}

var creationWords = []string{"built", "created", "made", "developed", "wrote", "designed"}

var personalIndicators = []string{"my", "i built", "i made", "i created", "i wrote"}

var demoWords = []string{"demo", "try it", "live", "playground", "interactive"}

var problemKeywords = []string{
	"solution", "solves", "fixes", "helps", "easier", "faster",
	"alternative", "replacement", "tool", "utility", "automates",
	"simplifies", "improves", "optimizes", "reduces", "eliminates",
}

var painPointKeywords = []string{
	"frustrating", "annoying", "difficult", "hard", "impossible",
	"slow", "inefficient", "manual", "tedious", "repetitive",
}

var spamKeywords = []string{
	"cryptocurrency", "crypto", "nft", "blockchain", "earn money",
	"make money", "get rich", "investment", "trading", "forex",
	"click here", "limited time", "act now", "exclusive",
}

var suspiciousDomains = []string{
	"bit.ly", "tinyurl.com", "goo.gl", "t.co",
	"affiliate", "referral", "promo",
}

var highRepDomains = []string{
	"github.com", "arxiv.org", "papers.withcode.com", "medium.com",
	"dev.to", "hackernoon.com", "towardsdatascience.com",
	"stackoverflow.com", "reddit.com", "youtube.com",
	"microsoft.com", "google.com", "amazon.com", "facebook.com",
	"twitter.com", "linkedin.com", "ieee.org", "acm.org",
}

var mediumRepDomains = []string{
	"substack.com", "hashnode.com", "blogspot.com", "wordpress.com",
	"gitlab.com", "bitbucket.org", "sourceforge.net",
}
