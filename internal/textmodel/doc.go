// Package textmodel provides the inference core: a fitted TF-IDF text
// vectorizer and a linear binary classifier, composed into an Engine that
// labels news text as REAL or FAKE.
//
// The vectorizer and classifier are trained offline and exported as two
// JSON artifacts (or packed together into a SQLite bundle, see the database
// package). They are loaded once at startup with LoadEngine and never
// mutated afterwards, so a single Engine can be shared by any number of
// goroutines without locking.
//
// Design decision: The Engine is an explicitly constructed value passed to
// its consumers rather than a package-level global. Loading is
// all-or-nothing: if either artifact is missing, corrupt, or inconsistent
// with the other, LoadEngine fails and the process must not serve requests.
//
// # Artifact format
//
// vectorizer.json mirrors a fitted scikit-learn TfidfVectorizer:
//
//	{
//	  "lowercase": true,
//	  "strip_accents": "unicode",
//	  "token_pattern": "(?u)\\b\\w\\w+\\b",
//	  "ngram_range": [1, 2],
//	  "stop_words": ["the", "a"],
//	  "vocabulary": {"market": 0, "rose": 1},
//	  "idf": [1.5, 2.0],
//	  "use_idf": true,
//	  "sublinear_tf": false,
//	  "binary": false,
//	  "norm": "l2"
//	}
//
// classifier.json mirrors a fitted linear model such as LogisticRegression:
//
//	{
//	  "coef": [[0.7, -1.2]],
//	  "intercept": [0.1],
//	  "classes": [0, 1],
//	  "labels": {"0": "FAKE", "1": "REAL"}
//	}
package textmodel
