package bootstrap

// CheckDependency reports whether c is present in env. When it is not, the
// returned error is a *MissingDependencyError naming c and its remedy link.
func CheckDependency(env *Environment, c Collaborator) (bool, error) {
	if env.Has(c) {
		return true, nil
	}
	return false, &MissingDependencyError{Collaborator: c}
}

// CheckDependencies runs CheckDependency for each collaborator in order and
// stops at the first one missing.
func CheckDependencies(env *Environment, required ...Collaborator) error {
	for _, c := range required {
		if _, err := CheckDependency(env, c); err != nil {
			return err
		}
	}
	return nil
}

// CheckConfigPluginDependency reports whether the Config plugin is present in env
func CheckConfigPluginDependency(env *Environment) (bool, error) {
	return CheckDependency(env, ConfigPlugin)
}

// CheckMemcachedCacheDependency reports whether the MemcachedCache collaborator is present in env
func CheckMemcachedCacheDependency(env *Environment) (bool, error) {
	return CheckDependency(env, MemcachedCache)
}

// CheckMySQLConnectionDependency reports whether the MySQLConnection collaborator is present in env
func CheckMySQLConnectionDependency(env *Environment) (bool, error) {
	return CheckDependency(env, MySQLConnection)
}

// CheckMySQLQueryDependency reports whether the MySQLQuery collaborator is present in env
func CheckMySQLQueryDependency(env *Environment) (bool, error) {
	return CheckDependency(env, MySQLQuery)
}

// CheckSMSessionDependency reports whether the SMSession collaborator is present in env
func CheckSMSessionDependency(env *Environment) (bool, error) {
	return CheckDependency(env, SMSession)
}

// CheckJSShrinkDependency reports whether the jsShrink function is present in env
func CheckJSShrinkDependency(env *Environment) (bool, error) {
	return CheckDependency(env, JSShrink)
}

// CheckDirectoryWritePermissions reports whether the process can write to
// path. Any failure, including a missing path, is a *PermissionError.
func CheckDirectoryWritePermissions(path string) (bool, error) {
	if err := checkWritable(path); err != nil {
		return false, &PermissionError{Path: path, Err: err}
	}
	return true, nil
}
