package labels

import (
	"fmt"

	"github.com/turtacn/sabdamanthan/internal/nepali"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// Message keys beyond the validation keys owned by the nepali package.
const (
	KeyEmptySentence    = "empty_sentence"
	KeyFetchSuggestions = "fetch_suggestions"
	KeyHTTPStatus       = "http_status"
	KeyNetwork          = "network"
	KeyFormat           = "format"
	KeyBusy             = "busy"
	KeyUnknownCandidate = "unknown_candidate"
)

// TabStrings are the titles of one tab.
type TabStrings struct {
	Title string
	Short string
}

// PanelStrings are the static texts of one panel.
type PanelStrings struct {
	Heading     string
	Intro       string
	InputLabel  string
	Placeholder string
	Submit      string
	ResultTitle string
	LegendTitle string
}

// Strings is the full set of UI strings for one locale.
type Strings struct {
	Locale nlp.Locale

	AppTitle      string
	AppSubtitle   string
	LanguageLabel string

	HeroIntro     string
	HeroTagline   string
	HeroLearnMore string

	Tabs   map[nlp.Task]TabStrings
	Panels map[nlp.Task]PanelStrings

	Processing         string
	SuggestedWords     string
	CompletedSentence  string
	HighestProbability string
	ErrorPrefix        string

	FooterDescription string
	FooterResources   string
	FooterDocs        string
	FooterAPI         string
	FooterGitHub      string
	FooterContact     string
	FooterContactText string
	FooterRights      string

	messages map[string]string
}

// Message returns the localized message for key, or key itself when the
// locale has no such message.
func (s Strings) Message(key string) string {
	if m, ok := s.messages[key]; ok {
		return m
	}
	return key
}

// Tab returns the tab titles of task.
func (s Strings) Tab(task nlp.Task) TabStrings { return s.Tabs[task] }

// Panel returns the panel texts of task.
func (s Strings) Panel(task nlp.Task) PanelStrings { return s.Panels[task] }

var english = Strings{
	Locale:        nlp.LocaleEnglish,
	AppTitle:      "शब्दमन्थन",
	AppSubtitle:   "Sabdamanthan",
	LanguageLabel: "नेपाली",

	HeroIntro:     "Introducing",
	HeroTagline:   "A powerful Nepali language embedding model designed to revolutionize natural language processing for Nepali text. Experience state-of-the-art performance in various NLP tasks.",
	HeroLearnMore: "Learn More",

	Tabs: map[nlp.Task]TabStrings{
		nlp.TaskFillMask: {Title: "Fill in the Blank", Short: "Fill Blank"},
		nlp.TaskNER:      {Title: "Named Entity Recognition", Short: "NER"},
		nlp.TaskPOS:      {Title: "Parts of Speech", Short: "POS"},
	},
	Panels: map[nlp.Task]PanelStrings{
		nlp.TaskFillMask: {
			Heading:     "Fill in the Blank",
			Intro:       `Enter a Nepali sentence with a blank space (represented by "_") and our model will suggest the most appropriate words to fill it.`,
			InputLabel:  `Enter a sentence with a blank (use "_" for the blank)`,
			Placeholder: "हाम्रो _____ वर्षको प्रोजेक्टको नमूना",
			Submit:      "Get Suggestions",
		},
		nlp.TaskNER: {
			Heading:     "Named Entity Recognition",
			Intro:       "Enter Nepali text and our model will identify and classify named entities such as people, organizations, locations, dates, and more.",
			InputLabel:  "Enter Nepali text",
			Placeholder: "रामले गएको हप्ता काठमाडौंमा भएको त्रिभुवन विश्वविद्यालयको कार्यक्रममा भाग लिए। यो कार्यक्रम २०७८ साल असार महिनामा आयोजना गरिएको थियो।",
			Submit:      "Identify Entities",
			ResultTitle: "Identified Entities",
			LegendTitle: "Entity Legend",
		},
		nlp.TaskPOS: {
			Heading:     "Parts of Speech Tagging",
			Intro:       "Enter Nepali text and our model will analyze and tag each word with its appropriate part of speech.",
			InputLabel:  "Enter Nepali text",
			Placeholder: "मैले हिजो राम्रो किताब पढें। त्यो किताब मेरो साथीले मलाई दिएको थियो।",
			Submit:      "Analyze Text",
			ResultTitle: "Tagged Words",
			LegendTitle: "POS Tag Legend",
		},
	},

	Processing:         "Processing...",
	SuggestedWords:     "Suggested Words",
	CompletedSentence:  "Completed Sentence",
	HighestProbability: "Highest probability",
	ErrorPrefix:        "Error: ",

	FooterDescription: "A state-of-the-art Nepali language embedding model designed to enhance natural language processing tasks.",
	FooterResources:   "Resources",
	FooterDocs:        "Documentation",
	FooterAPI:         "API Reference",
	FooterGitHub:      "GitHub Repository",
	FooterContact:     "Contact",
	FooterContactText: "Have questions or feedback? Reach out to our team.",
	FooterRights:      "All rights reserved.",

	messages: map[string]string{
		nepali.KeyEmptyInput:   "Please enter some Nepali text.",
		KeyEmptySentence:       "Please enter a sentence",
		nepali.KeyMissingBlank: `Please include a blank space using "_" in your sentence`,
		nepali.KeyNotNepali:    "Please enter text in Nepali language.",
		KeyFetchSuggestions:    "Error fetching suggestions",
		KeyHTTPStatus:          "HTTP error! Status: %d",
		KeyNetwork:             "Network error",
		KeyFormat:              "Unexpected response format",
		KeyBusy:                "This form is already processing a request.",
		KeyUnknownCandidate:    "That word is not one of the suggestions.",
	},
}

var nepaliStrings = Strings{
	Locale:        nlp.LocaleNepali,
	AppTitle:      "शब्दमन्थन",
	AppSubtitle:   "Sabdamanthan",
	LanguageLabel: "English",

	HeroIntro:     "परिचय",
	HeroTagline:   "नेपाली पाठको प्राकृतिक भाषा प्रशोधनलाई क्रान्तिकारी बनाउन डिजाइन गरिएको शक्तिशाली नेपाली भाषा एम्बेडिङ मोडेल। विभिन्न एनएलपी कार्यहरूमा अत्याधुनिक प्रदर्शन अनुभव गर्नुहोस्।",
	HeroLearnMore: "थप जानकारी",

	Tabs: map[nlp.Task]TabStrings{
		nlp.TaskFillMask: {Title: "रिक्त स्थान भर्नुहोस्", Short: "रिक्त"},
		nlp.TaskNER:      {Title: "नामित इकाई पहिचान", Short: "इकाई"},
		nlp.TaskPOS:      {Title: "भाषाको भागहरू", Short: "पद"},
	},
	Panels: map[nlp.Task]PanelStrings{
		nlp.TaskFillMask: {
			Heading:     "रिक्त स्थान भर्नुहोस्",
			Intro:       `रिक्त स्थान ("_") सहितको नेपाली वाक्य लेख्नुहोस्, हाम्रो मोडेलले भर्नका लागि उपयुक्त शब्दहरू सुझाउनेछ।`,
			InputLabel:  `रिक्त स्थान सहितको वाक्य लेख्नुहोस् (रिक्त स्थानका लागि "_" प्रयोग गर्नुहोस्)`,
			Placeholder: "हाम्रो _____ वर्षको प्रोजेक्टको नमूना",
			Submit:      "सुझाव पाउनुहोस्",
		},
		nlp.TaskNER: {
			Heading:     "नामित इकाई पहिचान",
			Intro:       "नेपाली पाठ लेख्नुहोस्, हाम्रो मोडेलले व्यक्ति, संस्था, स्थान, मिति जस्ता नामित इकाईहरू पहिचान र वर्गीकरण गर्नेछ।",
			InputLabel:  "नेपाली पाठ लेख्नुहोस्",
			Placeholder: "रामले गएको हप्ता काठमाडौंमा भएको त्रिभुवन विश्वविद्यालयको कार्यक्रममा भाग लिए। यो कार्यक्रम २०७८ साल असार महिनामा आयोजना गरिएको थियो।",
			Submit:      "इकाई पहिचान गर्नुहोस्",
			ResultTitle: "पहिचान गरिएका इकाईहरू",
			LegendTitle: "इकाई सूची",
		},
		nlp.TaskPOS: {
			Heading:     "पद वर्ग पहिचान",
			Intro:       "नेपाली पाठ लेख्नुहोस्, हाम्रो मोडेलले प्रत्येक शब्दको पद वर्ग विश्लेषण गरी चिन्ह लगाउनेछ।",
			InputLabel:  "नेपाली पाठ लेख्नुहोस्",
			Placeholder: "मैले हिजो राम्रो किताब पढें। त्यो किताब मेरो साथीले मलाई दिएको थियो।",
			Submit:      "विश्लेषण गर्नुहोस्",
			ResultTitle: "चिन्ह लगाइएका शब्दहरू",
			LegendTitle: "पद वर्ग सूची",
		},
	},

	Processing:         "प्रशोधन हुँदैछ...",
	SuggestedWords:     "सुझाइएका शब्दहरू",
	CompletedSentence:  "पूरा वाक्य",
	HighestProbability: "सबैभन्दा उच्च सम्भाव्यता",
	ErrorPrefix:        "त्रुटि: ",

	FooterDescription: "प्राकृतिक भाषा प्रशोधन कार्यहरू बढाउन डिजाइन गरिएको अत्याधुनिक नेपाली भाषा एम्बेडिङ मोडेल।",
	FooterResources:   "स्रोतहरू",
	FooterDocs:        "प्रलेखन",
	FooterAPI:         "API सन्दर्भ",
	FooterGitHub:      "GitHub रिपोजिटरी",
	FooterContact:     "सम्पर्क",
	FooterContactText: "प्रश्न वा प्रतिक्रिया छ? हाम्रो टोलीलाई सम्पर्क गर्नुहोस्।",
	FooterRights:      "सर्वाधिकार सुरक्षित।",

	messages: map[string]string{
		nepali.KeyEmptyInput:   "कृपया केही नेपाली पाठ लेख्नुहोस्।",
		KeyEmptySentence:       "कृपया एउटा वाक्य लेख्नुहोस्।",
		nepali.KeyMissingBlank: `कृपया वाक्यमा "_" प्रयोग गरी रिक्त स्थान राख्नुहोस्।`,
		nepali.KeyNotNepali:    "कृपया नेपाली भाषामा पाठ लेख्नुहोस्।",
		KeyFetchSuggestions:    "सुझावहरू ल्याउन सकिएन।",
		KeyHTTPStatus:          "HTTP त्रुटि! स्थिति: %d",
		KeyNetwork:             "सञ्जाल त्रुटि",
		KeyFormat:              "अप्रत्याशित प्रतिक्रिया ढाँचा",
		KeyBusy:                "यो फारमले पहिले नै अनुरोध प्रशोधन गर्दैछ।",
		KeyUnknownCandidate:    "यो शब्द सुझावहरूमध्ये होइन।",
	},
}

// Messages returns the UI strings for locale.  Unknown locales get English.
func Messages(locale nlp.Locale) Strings {
	if locale == nlp.LocaleNepali {
		return nepaliStrings
	}
	return english
}

// Localize renders err for display in a task's panel, without the error
// prefix.  Validation failures use their message key; the fill-mask panel
// reports every inference failure as a failure to fetch suggestions.
func Localize(task nlp.Task, err error, locale nlp.Locale) string {
	if err == nil {
		return ""
	}
	s := Messages(locale)
	ae, ok := errors.As(err)
	if !ok {
		return err.Error()
	}

	switch {
	case errors.IsValidation(ae):
		key := ae.Key
		if key == nepali.KeyEmptyInput && task == nlp.TaskFillMask {
			key = KeyEmptySentence
		}
		if key == "" {
			return ae.Message
		}
		return s.Message(key)
	case errors.IsBusy(ae):
		return s.Message(KeyBusy)
	case task == nlp.TaskFillMask && (errors.IsTransport(ae) || errors.IsFormat(ae)):
		return s.Message(KeyFetchSuggestions)
	case errors.IsTransport(ae):
		if ae.Status > 0 {
			return fmt.Sprintf(s.Message(KeyHTTPStatus), ae.Status)
		}
		return s.Message(KeyNetwork)
	case errors.IsFormat(ae):
		return s.Message(KeyFormat)
	case ae.Key != "":
		return s.Message(ae.Key)
	}
	return ae.Message
}

// ErrorText renders err the way a panel displays it.  Validation and busy
// messages are shown bare; other failures carry the locale's error prefix,
// except the fill-mask fetch failure which is already a sentence.
func ErrorText(task nlp.Task, err error, locale nlp.Locale) string {
	if err == nil {
		return ""
	}
	msg := Localize(task, err, locale)
	if errors.IsValidation(err) || errors.IsBusy(err) {
		return msg
	}
	if task == nlp.TaskFillMask && (errors.IsTransport(err) || errors.IsFormat(err)) {
		return msg
	}
	return Messages(locale).ErrorPrefix + msg
}
