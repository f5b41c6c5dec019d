package bootstrap

import "fmt"

// Collaborator names an optional runtime dependency a plugin may require
type Collaborator string

const (
	ConfigPlugin    Collaborator = `Plugin\Config`
	MemcachedCache  Collaborator = "MemcachedCache"
	MySQLConnection Collaborator = "MySQLConnection"
	MySQLQuery      Collaborator = "MySQLQuery"
	SMSession       Collaborator = "SMSession"
	JSShrink        Collaborator = "jsShrink"
)

// CollaboratorKind distinguishes class-like handles from plain functions
type CollaboratorKind string

const (
	KindClass    CollaboratorKind = "class"
	KindFunction CollaboratorKind = "function"
)

type collaboratorInfo struct {
	kind CollaboratorKind
	link string
}

var knownCollaborators = map[Collaborator]collaboratorInfo{
	ConfigPlugin:    {kind: KindClass, link: "https://github.com/onassar/TurtlePHP-ConfigPlugin"},
	MemcachedCache:  {kind: KindClass, link: "https://github.com/onassar/PHP-MemcachedCache"},
	MySQLConnection: {kind: KindClass, link: "https://github.com/onassar/PHP-MySQL"},
	MySQLQuery:      {kind: KindClass, link: "https://github.com/onassar/PHP-MySQL"},
	SMSession:       {kind: KindClass, link: "https://github.com/onassar/PHP-SecureSessions"},
	JSShrink:        {kind: KindFunction, link: "https://github.com/vrana/JsShrink/"},
}

// Collaborators returns every known collaborator in check order
func Collaborators() []Collaborator {
	return []Collaborator{
		ConfigPlugin,
		MemcachedCache,
		MySQLConnection,
		MySQLQuery,
		SMSession,
		JSShrink,
	}
}

// ParseCollaborator resolves a collaborator by name. Both the bare name and
// the leading-backslash form ("\MemcachedCache") are accepted.
func ParseCollaborator(name string) (Collaborator, error) {
	for len(name) > 0 && name[0] == '\\' {
		name = name[1:]
	}
	c := Collaborator(name)
	if _, ok := knownCollaborators[c]; !ok {
		return "", fmt.Errorf("unknown collaborator: %s", name)
	}
	return c, nil
}

// Known reports whether c is a recognised collaborator
func (c Collaborator) Known() bool {
	_, ok := knownCollaborators[c]
	return ok
}

// Kind returns whether the collaborator is a class or a function
func (c Collaborator) Kind() CollaboratorKind {
	if info, ok := knownCollaborators[c]; ok {
		return info.kind
	}
	return KindClass
}

// Link returns the remediation URL for a missing collaborator
func (c Collaborator) Link() string {
	return knownCollaborators[c].link
}

// Symbol returns the name as it appears in error messages
func (c Collaborator) Symbol() string {
	if c.Kind() == KindFunction {
		return string(c)
	}
	return `\` + string(c)
}

func (c Collaborator) String() string {
	return string(c)
}
