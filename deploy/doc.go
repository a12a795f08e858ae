/*
Package deploy provides NFMe contracts deployment procedure.

Deploy is expected to run from the account that will be known as the NFMe
operator. It deploys IdentityFactory with the Identity contract as its
template and the issuer gated by the claims of the trusted issuer key.
*/
package deploy
